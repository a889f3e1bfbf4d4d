package platform

import (
	"github.com/aretw0/userstore/pkg/core"
)

// New builds the repository and wraps it in a domain service.
//
//	svc, err := userstore.New("./users", userstore.WithSerializer("yaml"))
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	service := core.NewService(repo)
	if size, ok := applyOptions(opts).config["event_buffer"].(int); ok && size > 0 {
		service.SetEventBufferSize(size)
	}
	return service, nil
}
