package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service's HTTP handler.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Closer is a background component the application stops on shutdown.
type Closer interface {
	Close() error
}
