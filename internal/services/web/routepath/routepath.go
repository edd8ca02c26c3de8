// Package routepath stores canonical HTTP paths for web modules.
package routepath

const (
	Root          = "/"
	Health        = "/healthz"
	StaticPrefix  = "/static/"
	SchoolsPrefix = "/schools/"
	SchoolsSearch = "/schools/search"
)
