package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// CandidateIndex keeps resume embeddings so candidates can be searched by
// job description after they were uploaded.
type CandidateIndex interface {
	InitCollection(ctx context.Context, vectorSize uint64) error
	UpsertCandidate(ctx context.Context, candidateID string, name string, embedding []float32) error
	SearchCandidates(ctx context.Context, queryEmbedding []float32, limit int) ([]CandidateMatch, error)
}

type CandidateMatch struct {
	CandidateID string
	Name        string
	Score       float32
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	log            *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, log *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		log:            log,
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *qdrantService) InitCollection(ctx context.Context, vectorSize uint64) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.log.Info("✅ Collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.log.Info("✅ Qdrant collection created",
		zap.String("collection", q.collectionName),
		zap.Uint64("vector_size", vectorSize),
	)
	return nil
}

// UpsertCandidate implements CandidateIndex.
func (q *qdrantService) UpsertCandidate(ctx context.Context, candidateID string, name string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(candidateID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"candidate_id": candidateID,
			"name":         name,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchCandidates implements CandidateIndex.
func (q *qdrantService) SearchCandidates(ctx context.Context, queryEmbedding []float32, limit int) ([]CandidateMatch, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	matches := make([]CandidateMatch, 0, len(points))
	for _, point := range points {
		match := CandidateMatch{Score: point.Score}

		if id, ok := point.Payload["candidate_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				match.CandidateID = val.StringValue
			}
		}

		if name, ok := point.Payload["name"]; ok {
			if val, ok := name.GetKind().(*qdrant.Value_StringValue); ok {
				match.Name = val.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}
