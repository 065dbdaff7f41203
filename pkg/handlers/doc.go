// Package handlers implements harbor's endpoints as router.Handler
// functions over a shared State.
//
// Every handler returns a complete response or an error; none of them
// writes to the connection directly. Register installs them on a Router.
package handlers
