package platform

import (
	"github.com/geotagx/builder/pkg/core"
)

// New wires a core.Service to the configured source.
//
//	svc, err := builder.New("./projects", builder.WithMinify(false))
//
// When the source also implements core.BundleWriter it is used as the writer
// unless WithWriter overrides it.
func New(uri string, opts ...Option) (*core.Service, error) {
	o := apply(opts)

	src, err := initSource(uri, o)
	if err != nil {
		return nil, err
	}

	writer := o.writer
	if writer == nil {
		if w, ok := src.(core.BundleWriter); ok {
			writer = w
		}
	}

	return core.NewService(src, writer, o.logger), nil
}
