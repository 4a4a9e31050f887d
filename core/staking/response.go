package staking

import (
	"github.com/HelioTeam/helio-go-node/core/code"
)

// Response is the outcome of one staking operation. A non-zero code
// means the operation had no effect.
type Response struct {
	Code uint32
	Log  string
}

func (r Response) IsOK() bool {
	return r.Code == code.OK
}

func ok() Response {
	return Response{Code: code.OK}
}

func failure(c uint32, log string) Response {
	return Response{Code: c, Log: log}
}
