// Package source supplies raw decision-tree JSON.
//
// A [Source] returns the bytes of one tree per call to Fetch. Three
// implementations cover the CLI and server inputs:
//
//   - [HTTP]: GET a URL with retries and an optional response cache
//   - [File]: read a local file ("-" reads standard input)
//   - [Bytes]: in-memory data, used for request bodies and tests
//
// [Parse] picks one from a command-line argument:
//
//	src, err := source.Parse("https://assets.antv.antgroup.com/g6/decision-tree.json")
//	data, err := src.Fetch(ctx)
//
// # HTTP Behavior
//
// Network errors and 5xx responses are retried with exponential backoff.
// A 404 is reported as NOT_FOUND immediately. Successful bodies are stored
// in the configured cache under the URL and served from there until the
// TTL passes, unless Refresh is set.
package source
