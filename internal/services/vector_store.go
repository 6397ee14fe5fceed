package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/logger"
)

// MemoryPoint is one embedded document or document chunk. (UserID, DocID, Chunk) identifies
// the point, so storing it again replaces the earlier version.
type MemoryPoint struct {
	DocID     string
	Chunk     int
	UserID    string
	Kind      string
	Text      string
	Embedding []float32
	Metadata  map[string]interface{}
}

// SearchFilter narrows a similarity search. Empty fields match everything.
type SearchFilter struct {
	Kind   string
	UserID string
}

type SearchResult struct {
	ID       string
	Score    float32
	Text     string
	Kind     string
	Metadata map[string]interface{}
}

// VectorStore is the similarity index behind the career memory.
type VectorStore interface {
	InitCollection(ctx context.Context) error
	Upsert(ctx context.Context, point MemoryPoint) error
	Search(ctx context.Context, embedding []float32, filter SearchFilter, limit int, minScore float32) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, docID string) error
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(cfg config.QdrantConfig) (VectorStore, error) {
	parsed, err := url.Parse(cfg.URL)
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
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	vectorSize := cfg.VectorSize
	if vectorSize == 0 {
		vectorSize = 768
	}

	return &qdrantService{
		client:         client,
		collectionName: cfg.Collection,
		vectorSize:     vectorSize,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		logger.Info().Str("collection", q.collectionName).Msg("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	logger.Info().Str("collection", q.collectionName).Msg("✅ Qdrant collection created successfully")
	return nil
}

// pointID derives a deterministic UUID so re-stored documents overwrite their old point.
func pointID(userID, docID string, chunk int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s/%s/%d", userID, docID, chunk))).String()
}

// Upsert implements VectorStore.
func (q *qdrantService) Upsert(ctx context.Context, p MemoryPoint) error {
	payload := map[string]interface{}{
		"doc_id":  p.DocID,
		"user_id": p.UserID,
		"kind":    p.Kind,
		"text":    p.Text,
	}
	for k, v := range p.Metadata {
		if _, reserved := payload[k]; !reserved {
			payload[k] = v
		}
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(pointID(p.UserID, p.DocID, p.Chunk)),
		Vectors: qdrant.NewVectors(p.Embedding...),
		Payload: qdrant.NewValueMap(payload),
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

// Search implements VectorStore.
func (q *qdrantService) Search(ctx context.Context, embedding []float32, filter SearchFilter, limit int, minScore float32) ([]SearchResult, error) {
	var conditions []*qdrant.Condition
	if filter.Kind != "" {
		conditions = append(conditions, qdrant.NewMatch("kind", filter.Kind))
	}
	if filter.UserID != "" {
		conditions = append(conditions, qdrant.NewMatch("user_id", filter.UserID))
	}

	query := &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(conditions) > 0 {
		query.Filter = &qdrant.Filter{Must: conditions}
	}
	if minScore > 0 {
		query.ScoreThreshold = qdrant.PtrOf(minScore)
	}

	points, err := q.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload

		result := SearchResult{
			Score:    point.Score,
			ID:       payloadString(payload, "doc_id"),
			Text:     payloadString(payload, "text"),
			Kind:     payloadString(payload, "kind"),
			Metadata: make(map[string]interface{}),
		}

		for key, value := range payload {
			switch key {
			case "doc_id", "text", "kind":
				continue
			}
			if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
				result.Metadata[key] = val.StringValue
			} else if val, ok := value.GetKind().(*qdrant.Value_IntegerValue); ok {
				result.Metadata[key] = val.IntegerValue
			} else if val, ok := value.GetKind().(*qdrant.Value_DoubleValue); ok {
				result.Metadata[key] = val.DoubleValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			return val.StringValue
		}
	}
	return ""
}

// DeleteDocument implements VectorStore. It removes every chunk stored under docID.
func (q *qdrantService) DeleteDocument(ctx context.Context, docID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_id", docID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}
