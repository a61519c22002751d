package domain

type RequestStatus int

const (
	RequestIdle RequestStatus = iota
	RequestPending
	RequestFulfilled
	RequestRejected
)

func (s RequestStatus) String() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestFulfilled:
		return "fulfilled"
	case RequestRejected:
		return "rejected"
	}
	return "idle"
}

// Request is the lifecycle of one remote operation as seen by the view.
type Request struct {
	Status RequestStatus
	Error  string
}

func (r Request) Loading() bool { return r.Status == RequestPending }

func Pending() Request   { return Request{Status: RequestPending} }
func Fulfilled() Request { return Request{Status: RequestFulfilled} }

func Rejected(msg string) Request {
	return Request{Status: RequestRejected, Error: msg}
}
