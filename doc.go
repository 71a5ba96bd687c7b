// Package formbind renders server-side forms whose field names are scoped to a
// plugin namespace and bound to an object, and verifies what comes back.
//
// Every rendered form carries generated hidden fields: a signed token listing
// the field names the form rendered, and the signed referrer (extension,
// controller, action and arguments) of the request that rendered it. A
// submission is accepted only when both signatures check out, and only the
// arguments named by the token are passed on.
//
//	f := formbind.NewForm(req, form.WithObjectName("post"), form.WithHashService(hasher))
//	f.CreateField("title", "").SetAttribute("label", "Title")
//	markup, err := formbind.RenderHTML(ctx, f, formbind.HTMLOptions{Action: "/posts"})
//
// and, in the handler receiving the post:
//
//	sub, err := formbind.Verify(r, hasher, "tx_blog_posts")
package formbind
