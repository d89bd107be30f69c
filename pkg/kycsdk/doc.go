/*
Package kycsdk is the client side of the KYC API.

# Overview

Every call the application makes to the upstream goes through Client.Do, which
is the single request interceptor: it resolves the URL against the configured
base, attaches JSON and bearer headers, and turns every failure into one
*ClassifiedError so callers never deal with raw transport or status errors.

	client := kycsdk.NewClient("https://dummyjson.com")
	client.Tokens = store // anything with Token() string

	var me kycsdk.UserResponse
	err := client.Do(ctx, kycsdk.Request{Method: http.MethodGet, Path: "/auth/me"}, &me)

# Error classification

Failures are classified into a closed set of kinds:

  - KindNetwork: no response was obtained
  - KindClientError: 4xx
  - KindServerError: 5xx
  - KindUnclassified: any other non-success status

The user-facing message is resolved with precedence body "message" field,
then per-status text from Messages, then the family default. The message is
never empty.

	var ce *kycsdk.ClassifiedError
	if errors.As(err, &ce) && ce.Unauthorized() {
		// session is no longer accepted upstream
	}

# Typed calls

Login, Me, ListUsers and UpdateUser wrap Do for the endpoints the client uses.
*/
package kycsdk
