package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/weddingkeeper/internal/backend"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/document"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/grpcrecords"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/memory"
	"github.com/dmitrijs2005/weddingkeeper/internal/backend/postgres"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/blobs"
	"github.com/dmitrijs2005/weddingkeeper/internal/client/config"
	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
	"github.com/dmitrijs2005/weddingkeeper/internal/s3x"
	"github.com/dmitrijs2005/weddingkeeper/internal/s3x/membucket"
)

// objectAPI is what the document backend and the photo store need from
// an S3 client.
type objectAPI interface {
	document.ObjectAPI
	blobs.ObjectAPI
}

// Seams for tests.
var (
	newObjectAPI = func(ctx context.Context, s s3x.Settings) (objectAPI, error) {
		c, err := s3x.NewClient(ctx, s)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	openPostgres    = postgres.Open
	migratePostgres = postgres.RunMigrations
)

func s3Settings(c *config.Config) s3x.Settings {
	return s3x.Settings{
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
	}
}

func photoBaseURL(c *config.Config) string {
	return s3x.PublicBaseURL(s3Settings(c), c.S3Bucket)
}

// openObjects returns the S3 client, or an in-process bucket for the
// memory backend.
func openObjects(ctx context.Context, c *config.Config) (objectAPI, error) {
	if c.Backend == config.BackendMemory {
		return membucket.New(c.S3Bucket), nil
	}
	return newObjectAPI(ctx, s3Settings(c))
}

func nopClose() error { return nil }

// openRemote builds the backend named by c.Backend. The returned func
// releases its resources.
func openRemote(ctx context.Context, c *config.Config, objects objectAPI, l logging.Logger) (backend.Backend, func() error, error) {
	switch c.Backend {
	case config.BackendGRPC:
		token, err := accessToken(c)
		if err != nil {
			return nil, nil, err
		}
		client, err := grpcrecords.New(c.ServerEndpointAddr, token)
		if err != nil {
			return nil, nil, fmt.Errorf("grpc client init error: %w", err)
		}
		return client, client.Close, nil

	case config.BackendPostgres:
		db, err := openPostgres(c.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db init error: %w", err)
		}
		if err := migratePostgres(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db migration error: %w", err)
		}
		return postgres.New(db, l), db.Close, nil

	case config.BackendDocument:
		return document.New(objects, c.DocumentBucket, l), nopClose, nil

	case config.BackendMemory:
		flavor, err := backend.ParseFlavor(c.MemoryFlavor)
		if err != nil {
			return nil, nil, err
		}
		return memory.New(flavor), nopClose, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q", c.Backend)
}

// accessToken returns the configured token, or asks for one when running
// on a terminal. An empty token gives read-only access.
func accessToken(c *config.Config) (string, error) {
	if c.AccessToken != "" || !isTerminal(int(os.Stdin.Fd())) {
		return c.AccessToken, nil
	}
	return GetSecret(os.Stdout, "Enter admin token (empty for read-only): ")
}
