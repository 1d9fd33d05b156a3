package service

import "context"

type Service interface {
	// Run starts the service and blocks until ctx is cancelled or an error occurs.
	Run(ctx context.Context) error
}
