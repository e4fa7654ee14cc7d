package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory s3Client.
type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newTestS3(prefix string) (*S3, *fakeS3) {
	fake := newFakeS3()
	return &S3{client: fake, bucket: "test-bucket", prefix: strings.TrimSuffix(prefix, "/")}, fake
}

func TestS3KeyPrefix(t *testing.T) {
	ctx := context.Background()
	backend, fake := newTestS3("profiles/app")

	require.NoError(t, backend.WriteBytes(ctx, "/test_prompts.json", []byte("[]"), "application/json"))
	assert.Contains(t, fake.objects, "profiles/app/test_prompts.json")

	got, err := backend.ReadBytes(ctx, "test_prompts.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)
}

func TestS3NotFound(t *testing.T) {
	ctx := context.Background()
	backend, _ := newTestS3("")

	_, err := backend.ReadBytes(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := backend.Exists(ctx, "missing.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3ListStripsPrefix(t *testing.T) {
	ctx := context.Background()
	backend, _ := newTestS3("root")

	require.NoError(t, backend.WriteBytes(ctx, "profile_analyses/a_analysis.json", []byte("{}"), ""))
	require.NoError(t, backend.WriteBytes(ctx, "profile_analyses/b_analysis.json", []byte("{}"), ""))
	require.NoError(t, backend.WriteBytes(ctx, "profile_analyses/readme.md", []byte("#"), ""))

	paths, err := backend.List(ctx, "profile_analyses", "_analysis.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"profile_analyses/a_analysis.json",
		"profile_analyses/b_analysis.json",
	}, paths)
}

func TestS3JSONParityWithLocal(t *testing.T) {
	ctx := context.Background()

	type doc struct {
		Title string `json:"title"`
		Score int    `json:"score"`
	}
	want := doc{Title: "Alpine Stream", Score: 8}

	backends := map[string]Backend{
		"local": NewLocal(t.TempDir()),
	}
	s3Backend, _ := newTestS3("pfx")
	backends["s3"] = s3Backend

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, backend.WriteJSON(ctx, "dir/doc.json", want))

			var got doc
			require.NoError(t, backend.ReadJSON(ctx, "dir/doc.json", &got))
			assert.Equal(t, want, got)

			ok, err := backend.Exists(ctx, "dir/doc.json")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, backend.Delete(ctx, "dir/doc.json"))
			ok, err = backend.Exists(ctx, "dir/doc.json")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}
