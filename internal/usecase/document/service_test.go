package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/caselens/internal/domain"
	domdoc "github.com/kailas-cloud/caselens/internal/domain/document"
)

// --- Mocks ---

type mockSigner struct {
	link  domdoc.Link
	err   error
	calls []string
}

func (m *mockSigner) SignURL(_ context.Context, id string) (domdoc.Link, error) {
	m.calls = append(m.calls, id)
	return m.link, m.err
}

func signedLink(t *testing.T, url string) domdoc.Link {
	t.Helper()
	l, err := domdoc.NewSigned(url, 15*time.Minute)
	require.NoError(t, err)
	return l
}

// --- Tests ---

func TestView_StorageURLIsSigned(t *testing.T) {
	signer := &mockSigner{link: signedLink(t, "https://storage/doc-1?sig=abc")}
	svc := New(signer, "")

	link, err := svc.View(context.Background(), "gs://bucket/cases/doc-1.pdf")
	require.NoError(t, err)
	assert.True(t, link.Signed())
	assert.Equal(t, "https://storage/doc-1?sig=abc", link.URL())
	assert.Equal(t, []string{"doc-1"}, signer.calls)
}

func TestView_SigningFailureFallsBackToUnsigned(t *testing.T) {
	signer := &mockSigner{err: errors.Join(domain.ErrSigningFailed, errors.New("403"))}
	svc := New(signer, "gs://")

	link, err := svc.View(context.Background(), "gs://bucket/doc-2.pdf")
	require.NoError(t, err)
	assert.False(t, link.Signed())
	assert.Equal(t, "gs://bucket/doc-2.pdf", link.URL())
}

func TestView_HTTPURLIsOpenedAsIs(t *testing.T) {
	signer := &mockSigner{}
	svc := New(signer, "gs://")

	link, err := svc.View(context.Background(), " https://example.org/doc.pdf ")
	require.NoError(t, err)
	assert.False(t, link.Signed())
	assert.Equal(t, "https://example.org/doc.pdf", link.URL())
	assert.Empty(t, signer.calls)
}

func TestView_SchemeIsCaseInsensitive(t *testing.T) {
	signer := &mockSigner{link: signedLink(t, "https://signed")}
	svc := New(signer, "gs://")

	link, err := svc.View(context.Background(), "GS://bucket/x.pdf")
	require.NoError(t, err)
	assert.True(t, link.Signed())
}

func TestView_BucketRootIsNotSigned(t *testing.T) {
	signer := &mockSigner{}
	svc := New(signer, "gs://")

	link, err := svc.View(context.Background(), "gs://")
	require.NoError(t, err)
	assert.False(t, link.Signed())
	assert.Empty(t, signer.calls)
}

func TestView_EmptyURL(t *testing.T) {
	svc := New(&mockSigner{}, "")
	_, err := svc.View(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
