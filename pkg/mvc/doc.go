// Package mvc defines the request and validation-result contracts that form
// rendering consumes from the hosting MVC framework. StaticRequest and Result
// are small in-memory implementations; adapters such as httpform provide
// request values backed by net/http.
package mvc
