// Package httpform adapts net/http requests to the mvc contracts used by
// form rendering. It parses bracket-notation arguments, builds requests for
// a Route, builds the resubmission request that re-displays a failed form,
// and verifies submitted forms in a middleware.
package httpform
