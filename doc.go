// Package declrest declares HTTP requests instead of writing them:
// endpoint, verb, path, headers, query, form, body, timeout and
// response decoding are composed from independent annotations, and a
// call turns the declaration plus its arguments into one outbound
// request and a post-processed response value.
//
//	weather := declrest.New(
//		declrest.Endpoint("api.openweathermap.org"),
//		declrest.GET(declrest.T("/data/2.5/weather")),
//		declrest.Query("q", declrest.T("{q}")),
//		declrest.Query("appid", declrest.T("{appid}")),
//		declrest.JSONDecode(),
//		declrest.Params(declrest.Bind("q"), declrest.BindDefault("appid", "demo")),
//	)
//	out, err := weather.Call(ctx, declrest.Args{"London,uk"}, nil)
//
// Strings are only templated when tagged with T; untagged strings pass
// through even when they contain placeholder-like syntax. Declarations
// are immutable once built: every call works on a private deep copy,
// so concurrent calls never observe each other.
package declrest
