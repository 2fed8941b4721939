package loaders

import (
	"context"
	"testing"
	"time"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/require"

	tst "github.com/crednet/go-credential-processor/testing"
)

func TestHTTPLoader(t *testing.T) {
	_, restore := tst.MockHTTPClient(t, map[string][]byte{
		"https://example.com/list.json": []byte(`{"hello":"world"}`),
	})
	defer restore()

	document, contentType, err := HTTP{URL: "https://example.com/list.json"}.
		Load(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"hello":"world"}`, string(document))
	require.Equal(t, "application/json", contentType)
}

func TestHTTPLoaderEmptyURL(t *testing.T) {
	_, _, err := HTTP{}.Load(context.Background())
	require.ErrorIs(t, err, ErrorURLEmpty)
}

func TestIPFSLoaderEmptyCID(t *testing.T) {
	_, _, err := IPFS{URL: "https://ipfs.example.com"}.Load(context.Background())
	require.ErrorIs(t, err, CIDEmptyError)
}

func TestDocumentLoaderDispatch(t *testing.T) {
	_, restore := tst.MockHTTPClient(t, map[string][]byte{
		"https://example.com/status/1/list.json": []byte(`{"credentialSubject":{}}`),
	})
	defer restore()

	loader := NewDocumentLoader("")

	doc, err := loader.LoadDocument("https://example.com/status/1/list.json")
	require.NoError(t, err)
	require.NotNil(t, doc.Document)

	_, err = loader.LoadDocument("ftp://example.com/list.json")
	require.Error(t, err)

	// ipfs without a configured node
	_, err = loader.LoadDocument("ipfs://QmTest")
	require.Error(t, err)
}

func TestMemoryCacheEngine(t *testing.T) {
	engine, err := NewMemoryCacheEngine()
	require.NoError(t, err)

	_, _, err = engine.Get("missing")
	require.ErrorIs(t, err, ErrCacheMiss)

	doc := &ld.RemoteDocument{DocumentURL: "https://example.com/doc"}
	require.NoError(t, engine.Set("https://example.com/doc", doc, time.Now().Add(time.Hour)))

	cached, _, err := engine.Get("https://example.com/doc")
	require.NoError(t, err)
	require.Equal(t, doc, cached)
}

func TestMemoryCacheEngineEmbeddedDocuments(t *testing.T) {
	const u = "https://www.w3.org/2018/credentials/v1"

	engine, err := NewMemoryCacheEngine(
		WithEmbeddedDocumentBytes(u, []byte(`{"@context":{}}`)))
	require.NoError(t, err)

	doc, expire, err := engine.Get(u)
	require.NoError(t, err)
	require.NotNil(t, doc.Document)
	require.True(t, expire.After(time.Now()))

	// embedded documents win over later Set calls
	require.NoError(t, engine.Set(u, &ld.RemoteDocument{}, time.Now().Add(time.Hour)))
	doc2, _, err := engine.Get(u)
	require.NoError(t, err)
	require.Equal(t, doc, doc2)
}
