package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gradgallery/server/internal/localstore"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/repository"
)

// RemoteProvider fetches photos from a remote photo service over HTTP. Used
// when this process serves pages for a gallery whose records live on another
// deployment.
type RemoteProvider struct {
	baseURL string
	client  *http.Client
}

// NewRemoteProvider creates a provider for the service at baseURL.
func NewRemoteProvider(baseURL string) *RemoteProvider {
	return &RemoteProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

func (p *RemoteProvider) Source() Source {
	return SourceRemote
}

// ResolveURL turns a relative photo src into an absolute URL on the remote
// service. Absolute URLs pass through untouched.
func (p *RemoteProvider) ResolveURL(src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return p.baseURL + "/" + strings.TrimPrefix(src, "/")
}

func (p *RemoteProvider) Fetch(ctx context.Context) ([]models.PhotoRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/photos", nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote photo service returned status %d", resp.StatusCode)
	}

	var list models.PhotoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, err
	}
	if !list.Success {
		return nil, fmt.Errorf("remote photo service reported failure")
	}

	for i := range list.Photos {
		list.Photos[i].Src = p.ResolveURL(list.Photos[i].Src)
	}
	return list.Photos, nil
}

// RepoProvider serves the remote tier from this process's own document store:
// when pages are served by the backend itself, its repository is the
// authoritative "remote" source of the chain.
type RepoProvider struct {
	repo repository.PhotoRepo
}

func NewRepoProvider(repo repository.PhotoRepo) *RepoProvider {
	return &RepoProvider{repo: repo}
}

func (p *RepoProvider) Source() Source {
	return SourceRemote
}

func (p *RepoProvider) Fetch(ctx context.Context) ([]models.PhotoRecord, error) {
	return p.repo.GetAll(ctx)
}

// LocalProvider reads the browser-local-store mirror. By the store's contract
// it never errors: missing or corrupt data is an empty collection.
type LocalProvider struct {
	store *localstore.Store
}

func NewLocalProvider(store *localstore.Store) *LocalProvider {
	return &LocalProvider{store: store}
}

func (p *LocalProvider) Source() Source {
	return SourceLocal
}

func (p *LocalProvider) Fetch(ctx context.Context) ([]models.PhotoRecord, error) {
	return p.store.Photos(), nil
}

// DefaultProvider is the terminal tier: the compiled-in album.
type DefaultProvider struct{}

func NewDefaultProvider() *DefaultProvider {
	return &DefaultProvider{}
}

func (p *DefaultProvider) Source() Source {
	return SourceDefault
}

func (p *DefaultProvider) Fetch(ctx context.Context) ([]models.PhotoRecord, error) {
	return models.DefaultPhotos(), nil
}
