package loaders

import (
	"bytes"
	"context"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/pkg/errors"
)

// CIDEmptyError is for error when CID is empty
var CIDEmptyError = errors.New("CID is empty")

// IPFS is loader for documents pinned on an IPFS node
type IPFS struct {
	URL string
	CID string
}

// Load fetches the document with the configured CID through the node at URL.
func (l IPFS) Load(ctx context.Context) (document []byte, contentType string, err error) {
	if l.URL == "" {
		return nil, "", ErrorURLEmpty
	}
	if l.CID == "" {
		return nil, "", CIDEmptyError
	}

	sh := shell.NewShell(l.URL)
	sh.SetTimeout(httpLoadTimeout)

	data, err := sh.Cat(l.CID)
	if err != nil {
		return nil, "", errors.WithMessage(err, "ipfs cat failed")
	}
	defer func() {
		if err2 := data.Close(); err2 != nil && err == nil {
			err = errors.WithStack(err2)
		}
	}()

	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(data); err != nil {
		return nil, "", errors.WithStack(err)
	}

	return buf.Bytes(), "application/json", nil
}
