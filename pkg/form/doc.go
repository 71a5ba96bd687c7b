// Package form builds server-rendered forms bound to an MVC request.
//
// A Form owns its fields and a Context holding the request and the name of
// the bound object. Field names are nested under the plugin namespace of the
// request ("tx_blog_posts[post][title]"), and values are re-populated from
// the failed request when a form is re-displayed after validation.
//
// Render appends two groups of hidden fields after the registered hidden
// fields:
//
//   - __trustedProperties: a signed token listing every rendered field name,
//     so the receiving action only accepts properties the form offered.
//   - __referrer[@extension], [@controller], [@action], [arguments] and
//     [@request]: the identity and arguments of the rendering action, the
//     last two signed, so a failed submission can be forwarded back to it.
//
// Typical use:
//
//	f := form.New(req,
//		form.WithObjectName("post"),
//		form.WithHashService(security.MustHashService(secret)),
//	)
//	f.CreateField("title", "").SetAttribute("type", "text")
//	f.CreatePlainField("search", "q")
//	rendered, err := f.Render()
package form
