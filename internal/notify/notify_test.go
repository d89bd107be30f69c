package notify_test

import (
	"bytes"
	"testing"

	"github.com/aussiebroadwan/kyc/internal/notify"
	"github.com/stretchr/testify/require"
)

func TestToaster(t *testing.T) {
	var buf bytes.Buffer
	toast := notify.NewToaster(&buf)

	toast.Notify(notify.Error, "Bad Gateway. Please try again later.")
	toast.Notify(notify.Info, "Saved.")

	require.Equal(t, "[!] Bad Gateway. Please try again later.\n[i] Saved.\n", buf.String())
}

func TestDeferredHoldsUntilFlush(t *testing.T) {
	rec := &notify.Recorder{}
	d := notify.NewDeferred(rec)

	d.Notify(notify.Info, "one")
	d.Notify(notify.Error, "two")
	require.Equal(t, 2, d.Pending())
	require.Empty(t, rec.Notices())

	require.Equal(t, 2, d.Flush())
	require.Equal(t, []notify.Notice{
		{Level: notify.Info, Message: "one"},
		{Level: notify.Error, Message: "two"},
	}, rec.Notices())

	require.Zero(t, d.Pending())
	require.Zero(t, d.Flush())
}

func TestNotifierFunc(t *testing.T) {
	var got string
	notify.NotifierFunc(func(_ notify.Level, msg string) { got = msg }).Notify(notify.Info, "hi")
	require.Equal(t, "hi", got)
	require.Equal(t, "error", notify.Error.String())
}
