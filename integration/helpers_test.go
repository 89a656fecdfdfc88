//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/meigma/assets/internal/fsutil"
	"github.com/meigma/assets/manifest"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

// --- MinIO Container Setup ---

var (
	minioOnce     sync.Once
	minioEndpoint string
	minioErr      error
)

// getMinIO returns the shared MinIO endpoint, starting the container if needed.
// The container is shared across all tests for performance.
func getMinIO(tb testing.TB) string {
	tb.Helper()

	if os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		tb.Skip("SKIP_DOCKER_TESTS is set")
	}

	minioOnce.Do(func() {
		minioEndpoint, minioErr = startMinIOContainer(context.Background())
	})

	if minioErr != nil {
		tb.Fatalf("start minio container: %v", minioErr)
	}
	return minioEndpoint
}

// startMinIOContainer starts a MinIO server and returns its host:port endpoint.
// Cleanup is handled by the testcontainers reaper.
func startMinIOContainer(ctx context.Context) (string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioUser,
			"MINIO_ROOT_PASSWORD": minioPassword,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start minio container: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return "", fmt.Errorf("resolve minio endpoint: %w", err)
	}
	return endpoint, nil
}

// newMinIOClient connects to the test server.
func newMinIOClient(tb testing.TB, endpoint string) *minio.Client {
	tb.Helper()
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioUser, minioPassword, ""),
		Secure: false,
	})
	require.NoError(tb, err, "create minio client")
	return client
}

// newBucket creates a bucket unique to the test.
func newBucket(tb testing.TB, client *minio.Client, name string) string {
	tb.Helper()
	bucket := strings.ToLower(strings.NewReplacer("_", "-", "/", "-").Replace(name))
	err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{})
	require.NoError(tb, err, "make bucket %s", bucket)
	return bucket
}

// --- Bundle Helpers ---

// buildBundle writes files to an in-memory filesystem and generates its
// manifest with the default settings.
func buildBundle(tb testing.TB, files map[string]string) billy.Filesystem {
	tb.Helper()
	fsys := memfs.New()
	for name, content := range files {
		require.NoError(tb, util.WriteFile(fsys, name, []byte(content), 0o644))
	}
	_, err := manifest.Generate(context.Background(), fsys)
	require.NoError(tb, err, "generate manifest")
	return fsys
}

// uploadBundle copies every file of fsys, manifest included, into bucket
// under prefix.
func uploadBundle(tb testing.TB, client *minio.Client, fsys billy.Filesystem, bucket, prefix string) {
	tb.Helper()
	ctx := context.Background()
	err := fsutil.Walk(fsys, ".", func(name string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		data, err := util.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		key := name
		if prefix != "" {
			key = prefix + "/" + name
		}
		_, err = client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
		return err
	})
	require.NoError(tb, err, "upload bundle")
}
