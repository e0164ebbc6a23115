package fees

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"feeScope/internal/model"
)

type fakeQuerier struct {
	pages     [][]model.PositionRecord
	poolTicks map[string]model.PoolTick

	positionCalls int
	poolCalls     int
	positionsErr  error
	poolErr       error
}

func (f *fakeQuerier) QueryPositions(_ context.Context, _ uint64, first, skip int) ([]model.PositionRecord, error) {
	f.positionCalls++
	if f.positionsErr != nil {
		return nil, f.positionsErr
	}
	page := skip / first
	if page >= len(f.pages) {
		return nil, nil
	}
	return f.pages[page], nil
}

func (f *fakeQuerier) QueryPoolTick(_ context.Context, poolID string, _ uint64) (model.PoolTick, error) {
	f.poolCalls++
	if f.poolErr != nil {
		return model.PoolTick{}, f.poolErr
	}
	tick, ok := f.poolTicks[poolID]
	if !ok {
		return model.PoolTick{}, fmt.Errorf("%w: pool %s", model.ErrDataUnavailable, poolID)
	}
	return tick, nil
}

func testRecord(id int64, poolID string) model.PositionRecord {
	record := inRangeRecord()
	record.ID = strconv.FormatInt(id, 10)
	record.Pool.ID = poolID
	return record
}

func singlePool(poolID string) map[string]model.PoolTick {
	return map[string]model.PoolTick{
		poolID: {Tick: 0, Token0Price: 0.5, Token1Price: 2.0},
	}
}

func TestFetchAllPaginatesUntilEmptyPage(t *testing.T) {
	querier := &fakeQuerier{
		pages: [][]model.PositionRecord{
			{testRecord(1, "p1"), testRecord(2, "p1")},
			{testRecord(3, "p1"), testRecord(4, "p1")},
			{},
		},
		poolTicks: singlePool("p1"),
	}

	fetcher := NewFetcher(querier, NewAccountant(nil, nil), 2, nil)
	got, err := fetcher.FetchAll(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("expected 4 positions, got %d", len(got))
	}
	if querier.positionCalls != 3 {
		t.Fatalf("expected 3 page fetches, got %d", querier.positionCalls)
	}
	for _, id := range []int64{1, 2, 3, 4} {
		if _, ok := got[id]; !ok {
			t.Fatalf("missing position %d", id)
		}
	}
}

func TestFetchAllStopsOnShortPage(t *testing.T) {
	querier := &fakeQuerier{
		pages: [][]model.PositionRecord{
			{testRecord(1, "p1"), testRecord(2, "p1")},
			{testRecord(3, "p1")},
		},
		poolTicks: singlePool("p1"),
	}

	fetcher := NewFetcher(querier, NewAccountant(nil, nil), 2, nil)
	got, err := fetcher.FetchAll(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(got))
	}
	if querier.positionCalls != 2 {
		t.Fatalf("short page must terminate pagination, got %d fetches", querier.positionCalls)
	}
}

func TestFetchAllCachesPoolQueries(t *testing.T) {
	querier := &fakeQuerier{
		pages: [][]model.PositionRecord{
			{testRecord(1, "p1"), testRecord(2, "p2"), testRecord(3, "p1"), testRecord(4, "p1")},
		},
		poolTicks: map[string]model.PoolTick{
			"p1": {Token1Price: 2.0},
			"p2": {Token1Price: 3.0},
		},
	}

	fetcher := NewFetcher(querier, NewAccountant(nil, nil), 10, nil)
	got, err := fetcher.FetchAll(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("expected 4 positions, got %d", len(got))
	}
	if querier.poolCalls != 2 {
		t.Fatalf("expected one pool query per pool, got %d", querier.poolCalls)
	}
}

func TestFetchAllPageFailureAborts(t *testing.T) {
	querier := &fakeQuerier{
		positionsErr: fmt.Errorf("%w: block too old", model.ErrDataUnavailable),
	}

	fetcher := NewFetcher(querier, NewAccountant(nil, nil), 2, nil)
	got, err := fetcher.FetchAll(context.Background(), 1000)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if got != nil {
		t.Fatalf("no partial result on failure, got %d positions", len(got))
	}
}

func TestFetchAllPoolFailureAborts(t *testing.T) {
	querier := &fakeQuerier{
		pages: [][]model.PositionRecord{
			{testRecord(1, "p1")},
		},
		poolErr: fmt.Errorf("%w: pool missing", model.ErrDataUnavailable),
	}

	fetcher := NewFetcher(querier, NewAccountant(nil, nil), 2, nil)
	if _, err := fetcher.FetchAll(context.Background(), 1000); !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestFetchAllMalformedRecordAborts(t *testing.T) {
	bad := testRecord(1, "p1")
	bad.Liquidity = "not-a-number"

	querier := &fakeQuerier{
		pages:     [][]model.PositionRecord{{bad}},
		poolTicks: singlePool("p1"),
	}

	fetcher := NewFetcher(querier, NewAccountant(nil, nil), 2, nil)
	if _, err := fetcher.FetchAll(context.Background(), 1000); !errors.Is(err, model.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestFetchAllDuplicateIDLaterWins(t *testing.T) {
	first := testRecord(9, "p1")
	second := testRecord(9, "p1")
	second.Owner = "0x2222222222222222222222222222222222222222"

	querier := &fakeQuerier{
		pages:     [][]model.PositionRecord{{first, second}},
		poolTicks: singlePool("p1"),
	}

	fetcher := NewFetcher(querier, NewAccountant(nil, nil), 10, nil)
	got, err := fetcher.FetchAll(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 position, got %d", len(got))
	}
	if got[9].Owner != second.Owner {
		t.Fatalf("later duplicate must win, got owner %s", got[9].Owner)
	}
}
