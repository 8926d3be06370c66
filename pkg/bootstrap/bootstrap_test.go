package bootstrap

import (
	"context"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/contract-search/pkg/errors"
	"github.com/theapemachine/contract-search/pkg/stores/neo4j"
)

// indexCatalog behaves like SHOW INDEXES over whatever has been created.
type indexCatalog struct {
	mu      sync.Mutex
	indexes map[string]string
}

func (catalog *indexCatalog) handler(call neo4j.Call) (*neo4j.Result, error) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if call.Cypher == queryIndexExists {
		name := call.Params["index_name"].(string)

		if _, ok := catalog.indexes[name]; ok {
			return &neo4j.Result{Keys: []string{"name"}, Records: []neo4j.Record{{"name": name}}}, nil
		}

		return &neo4j.Result{Keys: []string{"name"}}, nil
	}

	fields := strings.Fields(call.Cypher)

	for i, field := range fields {
		if field == "INDEX" {
			catalog.indexes[fields[i+1]] = call.Cypher
		}
	}

	return &neo4j.Result{}, nil
}

func writes(calls []neo4j.Call) int {
	n := 0

	for _, call := range calls {
		if call.Write {
			n++
		}
	}

	return n
}

func TestEnsureIndexes(t *testing.T) {
	Convey("Given an empty store", t, func() {
		catalog := &indexCatalog{indexes: map[string]string{}}
		recorder := neo4j.NewRecorder(catalog.handler)
		ctx := context.Background()

		created, err := EnsureIndexes(ctx, recorder, DefaultOptions())

		Convey("Then every index is created", func() {
			So(err, ShouldBeNil)
			So(created, ShouldResemble, []string{
				"excerptTextIndex",
				"agreementTypeTextIndex",
				"clauseTypeNameTextIndex",
				"clauseNameTextIndex",
				"organizationNameTextIndex",
				"agreementContractId",
				"excerpt_embedding",
			})
			So(catalog.indexes["excerpt_embedding"], ShouldContainSubstring, "`vector.dimensions`: 1536")
			So(catalog.indexes["excerpt_embedding"], ShouldContainSubstring, "'cosine'")
		})

		Convey("When it runs a second time", func() {
			firstWrites := writes(recorder.Calls())
			again, err := EnsureIndexes(ctx, recorder, DefaultOptions())

			Convey("Then the index set is unchanged and nothing is created", func() {
				So(err, ShouldBeNil)
				So(again, ShouldBeEmpty)
				So(writes(recorder.Calls()), ShouldEqual, firstWrites)
				So(catalog.indexes, ShouldHaveLength, 7)
			})
		})
	})

	Convey("Given a store that already has the organization index", t, func() {
		catalog := &indexCatalog{indexes: map[string]string{"organizationNameTextIndex": "existing"}}
		recorder := neo4j.NewRecorder(catalog.handler)

		created, err := EnsureIndexes(context.Background(), recorder, Options{Dimensions: 768})

		Convey("Then only the missing ones are created", func() {
			So(err, ShouldBeNil)
			So(created, ShouldHaveLength, 6)
			So(created, ShouldNotContain, "organizationNameTextIndex")
			So(catalog.indexes["excerpt_embedding"], ShouldContainSubstring, "`vector.dimensions`: 768")
		})
	})

	Convey("Given an unreachable store", t, func() {
		recorder := neo4j.NewRecorder(func(neo4j.Call) (*neo4j.Result, error) {
			return nil, errors.ErrConnectivity
		})

		_, err := EnsureIndexes(context.Background(), recorder, DefaultOptions())

		Convey("Then the connectivity error is returned", func() {
			So(errors.Is(err, errors.ErrConnectivity), ShouldBeTrue)
		})
	})
}
