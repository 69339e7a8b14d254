package web

// Handler serves one request. It must send the status line and headers before
// any body bytes. closeConn reports whether the dispatcher closes the
// connection once the handler returns; a returned error is a handler failure
// and the connection is always closed.
type Handler interface {
	ServeWeb(req *Request, w *Response) (closeConn bool, err error)
}

// HandlerFunc adapts a function to Handler. The connection is closed after it
// returns.
type HandlerFunc func(req *Request, w *Response) error

func (f HandlerFunc) ServeWeb(req *Request, w *Response) (bool, error) {
	return true, f(req, w)
}

// ConnHandlerFunc adapts a function that decides itself whether the
// connection stays open.
type ConnHandlerFunc func(req *Request, w *Response) (bool, error)

func (f ConnHandlerFunc) ServeWeb(req *Request, w *Response) (bool, error) {
	return f(req, w)
}
