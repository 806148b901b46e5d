// types package contains the types shared by the GraphQL routes and the endpoint
package types

import "net/http"

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
