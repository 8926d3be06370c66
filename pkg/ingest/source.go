package ingest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source yields the documents to load.
type Source interface {
	Documents(ctx context.Context) ([]NamedDocument, error)
}

// DirSource reads every *.json file in a directory.
type DirSource struct {
	Dir string
}

func (source DirSource) Documents(ctx context.Context) ([]NamedDocument, error) {
	entries, err := os.ReadDir(source.Dir)

	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	docs := make([]NamedDocument, 0, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(source.Dir, name))

		if err != nil {
			return nil, err
		}

		doc, err := Parse(name, data)

		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// ObjectStore is the subset of the bucket client the loader needs.
type ObjectStore interface {
	List(ctx context.Context, bucketName, prefix string) ([]string, error)
	Get(ctx context.Context, bucketName, objectKey string) (*bytes.Buffer, error)
}

// BucketSource reads every *.json object under Prefix in Bucket.
type BucketSource struct {
	Store  ObjectStore
	Bucket string
	Prefix string
}

func (source BucketSource) Documents(ctx context.Context) ([]NamedDocument, error) {
	keys, err := source.Store.List(ctx, source.Bucket, source.Prefix)

	if err != nil {
		return nil, err
	}

	docs := make([]NamedDocument, 0, len(keys))

	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}

		buf, err := source.Store.Get(ctx, source.Bucket, key)

		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}

		doc, err := Parse(key, buf.Bytes())

		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}
