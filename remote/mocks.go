package remote

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/mock"
)

type TransportMock struct {
	mock.Mock
}

func NewTransportMock() *TransportMock {
	return &TransportMock{}
}

func (o *TransportMock) Execute(ctx context.Context, document string, variables map[string]interface{}) (*graphql.Result, error) {
	args := o.Called(document, variables)
	var result *graphql.Result
	if value := args.Get(0); value != nil {
		result = value.(*graphql.Result)
	}
	return result, args.Error(1)
}
