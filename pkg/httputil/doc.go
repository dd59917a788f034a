// Package httputil provides HTTP helpers for remote tree sources.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped
// with [RetryableError] (see [Retryable]) are retried; anything else is
// returned immediately. Wrap transient failures such as network errors and
// 5xx responses, and leave permanent ones such as 404 unwrapped:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// [RetryWithBackoff] uses 3 attempts starting at a 1 second delay.
//
// # Client
//
// [NewClient] returns an *http.Client with the default request timeout.
package httputil
