// Package template defines the template renderer contract used by the HTML
// renderer. The gotemplate subpackage implements it on top of pongo2.
package template
