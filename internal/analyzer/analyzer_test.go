package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalalalala1357/hospital-review-analysis/internal/scrape"
	"github.com/lalalalala1357/hospital-review-analysis/internal/sentiment"
	apperr "github.com/lalalalala1357/hospital-review-analysis/pkg/errors"
)

type fakeExtractor struct {
	reviews []scrape.RawReview
	calls   int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, maxCount, _ int) []scrape.RawReview {
	f.calls++
	if len(f.reviews) > maxCount {
		return f.reviews[:maxCount]
	}
	return f.reviews
}

type fakeClassifier struct{}

func (fakeClassifier) Classify(_ context.Context, reviews []scrape.RawReview) ([]sentiment.ClassifiedReview, int, int) {
	classified := make([]sentiment.ClassifiedReview, 0, len(reviews))
	pos := 0
	for _, r := range reviews {
		classified = append(classified, sentiment.ClassifiedReview{
			Text:      r.Text,
			TimeLabel: r.TimeLabel,
			Sentiment: sentiment.Positive,
			Score:     85.0,
		})
		pos++
	}
	return classified, pos, 0
}

type fakeStore struct {
	saved map[string][]sentiment.ClassifiedReview
	err   error
}

func (f *fakeStore) SaveAnalysis(_ context.Context, name string, classified []sentiment.ClassifiedReview) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]sentiment.ClassifiedReview)
	}
	f.saved[name] = classified
	return nil
}

type fakeCache struct {
	values map[string][]byte
}

func (f *fakeCache) Get(key string) ([]byte, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeCache) Set(key string, value []byte, _ time.Duration) error {
	if f.values == nil {
		f.values = make(map[string][]byte)
	}
	f.values[key] = value
	return nil
}

func (f *fakeCache) Delete(key string) error {
	delete(f.values, key)
	return nil
}

type fakePublisher struct {
	published [][]byte
}

func (f *fakePublisher) Publish(_ string, message []byte) error {
	f.published = append(f.published, message)
	return nil
}

func (f *fakePublisher) TrimStreams() error { return nil }
func (f *fakePublisher) Close() error       { return nil }

func TestAnalyzeHappyPath(t *testing.T) {
	extractor := &fakeExtractor{reviews: []scrape.RawReview{
		{ID: "r1", Text: "很好", TimeLabel: "1天前"},
		{ID: "r2", Text: "不錯", TimeLabel: "2天前"},
	}}
	st := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewService(extractor, fakeClassifier{}, st, &fakeCache{}, pub, Options{
		MaxReviews:        30,
		MaxScrollAttempts: 15,
		CooldownWindow:    time.Minute,
	})

	result, err := svc.Analyze(context.Background(), "Test Hospital")
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Test Hospital", result.Hospital)
	assert.Len(t, result.Reviews, 2)
	assert.Equal(t, 2, result.Positive)
	assert.Equal(t, 0, result.Negative)

	assert.Len(t, st.saved["Test Hospital"], 2)
	assert.Len(t, pub.published, 1)
	assert.Contains(t, string(pub.published[0]), result.RunID)
}

func TestAnalyzeNoReviews(t *testing.T) {
	svc := NewService(&fakeExtractor{}, fakeClassifier{}, &fakeStore{}, nil, nil, Options{})

	result, err := svc.Analyze(context.Background(), "Ghost Hospital")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoReviews)
}

func TestAnalyzeEmptyName(t *testing.T) {
	svc := NewService(&fakeExtractor{}, fakeClassifier{}, &fakeStore{}, nil, nil, Options{})

	_, err := svc.Analyze(context.Background(), "")
	require.Error(t, err)
	var ae *apperr.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.ErrorTypeValidation, ae.Type)
}

func TestAnalyzeCooldownBlocksSecondRun(t *testing.T) {
	extractor := &fakeExtractor{reviews: []scrape.RawReview{
		{ID: "r1", Text: "很好", TimeLabel: "1天前"},
	}}
	svc := NewService(extractor, fakeClassifier{}, &fakeStore{}, &fakeCache{}, nil, Options{
		CooldownWindow: time.Minute,
	})

	_, err := svc.Analyze(context.Background(), "Test Hospital")
	require.NoError(t, err)
	assert.Equal(t, 1, extractor.calls)

	_, err = svc.Analyze(context.Background(), "Test Hospital")
	require.Error(t, err)
	var ae *apperr.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.ErrorTypeCooldown, ae.Type)
	assert.Equal(t, 1, extractor.calls, "blocked run must not launch an extraction")
}

func TestAnalyzeStoreFailureIsFatal(t *testing.T) {
	extractor := &fakeExtractor{reviews: []scrape.RawReview{
		{ID: "r1", Text: "很好", TimeLabel: "1天前"},
	}}
	storeErr := errors.New("connection refused")
	svc := NewService(extractor, fakeClassifier{}, &fakeStore{err: storeErr}, nil, nil, Options{})

	_, err := svc.Analyze(context.Background(), "Test Hospital")
	require.Error(t, err)
	var ae *apperr.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.ErrorTypeStore, ae.Type)
	assert.ErrorIs(t, err, storeErr)
}

func TestAnalyzeRespectsMaxReviews(t *testing.T) {
	var many []scrape.RawReview
	for i := 0; i < 50; i++ {
		many = append(many, scrape.RawReview{ID: string(rune('a' + i)), Text: "ok", TimeLabel: "近期"})
	}
	extractor := &fakeExtractor{reviews: many}
	svc := NewService(extractor, fakeClassifier{}, &fakeStore{}, nil, nil, Options{MaxReviews: 5})

	result, err := svc.Analyze(context.Background(), "Test Hospital")
	require.NoError(t, err)
	assert.Len(t, result.Reviews, 5)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "reviews.csv")
	classified := []sentiment.ClassifiedReview{
		{Text: "很好", TimeLabel: "1天前", Sentiment: sentiment.Positive, Score: 85.0},
		{Text: "等太久", TimeLabel: "2天前", Sentiment: sentiment.Negative, Score: 20.5},
	}

	require.NoError(t, WriteCSV(path, classified))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, len(data) > 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF, "export must start with a UTF-8 BOM")
	assert.Contains(t, content, "text,time,label,score")
	assert.Contains(t, content, "很好,1天前,POSITIVE,85.00")
	assert.Contains(t, content, "等太久,2天前,NEGATIVE,20.50")
}
