package arima

import (
	"errors"
	"fmt"
	"math"

	"github.com/BOLT4L/SaleForecast/internal/stattest"
)

// ErrNoModel 어떤 후보 차수도 적합되지 않음
var ErrNoModel = errors.New("arima: no candidate order could be fitted")

// SearchConfig 단계적 차수 탐색 범위
type SearchConfig struct {
	MaxP, MaxQ, MaxD    int
	MaxSP, MaxSQ, MaxSD int
	MaxOrder            int
	M                   int     // 계절 주기 (0/1 = 비계절)
	Alpha               float64 // KPSS 유의수준
	MaxModels           int
}

// DefaultSearchConfig 기본 탐색 범위
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxP:      3,
		MaxQ:      3,
		MaxD:      2,
		MaxSP:     2,
		MaxSQ:     2,
		MaxSD:     1,
		MaxOrder:  5,
		Alpha:     0.05,
		MaxModels: 100,
	}
}

// SearchResult 탐색 결과
type SearchResult struct {
	Best      *Model
	Evaluated int
	Fallback  bool
}

type candidate struct {
	p, q, sp, sq int
	intercept    bool
}

// Auto selects an order by the Hyndman-Khandakar stepwise search: the
// differencing orders come from unit-root tests, then neighbouring (p,q,P,Q)
// and intercept choices are explored while the AIC keeps improving.
func Auto(y []float64, cfg SearchConfig) (*SearchResult, error) {
	seasonal := cfg.M > 1
	m := cfg.M
	if !seasonal {
		m = 0
		cfg.MaxSP, cfg.MaxSQ, cfg.MaxSD = 0, 0, 0
	}

	sd := 0
	x := y
	if seasonal && cfg.MaxSD > 0 {
		sd = min(stattest.NSDiffs(y, m), cfg.MaxSD)
		for i := 0; i < sd; i++ {
			x = stattest.Diff(x, m)
		}
	}
	d := stattest.NDiffs(x, cfg.Alpha, cfg.MaxD)

	s := &searcher{
		y:     y,
		cfg:   cfg,
		m:     m,
		d:     d,
		sd:    sd,
		tried: make(map[candidate]bool),
	}

	withConst := d+sd < 2
	starts := []candidate{
		{p: 2, q: 2, sp: 1, sq: 1, intercept: withConst},
		{intercept: withConst},
		{p: 1, sp: 1, intercept: withConst},
		{q: 1, sq: 1, intercept: withConst},
	}
	if withConst {
		starts = append(starts, candidate{})
	}
	for _, c := range starts {
		s.try(s.clamp(c))
	}

	for improved := true; improved && s.best != nil && s.evaluated < cfg.MaxModels; {
		improved = false
		for _, c := range s.neighbours(s.bestKey) {
			if s.try(c) {
				improved = true
				break
			}
		}
	}

	if s.best == nil {
		return s.fallback()
	}
	return &SearchResult{Best: s.best, Evaluated: s.evaluated}, nil
}

type searcher struct {
	y     []float64
	cfg   SearchConfig
	m     int
	d, sd int

	tried     map[candidate]bool
	evaluated int
	best      *Model
	bestKey   candidate
}

func (s *searcher) order(c candidate) Order {
	return Order{P: c.p, D: s.d, Q: c.q, SP: c.sp, SD: s.sd, SQ: c.sq, M: s.m, Intercept: c.intercept}
}

// clamp 범위를 벗어난 시작 후보를 경계로 자름
func (s *searcher) clamp(c candidate) candidate {
	c.p = min(c.p, s.cfg.MaxP)
	c.q = min(c.q, s.cfg.MaxQ)
	c.sp = min(c.sp, s.cfg.MaxSP)
	c.sq = min(c.sq, s.cfg.MaxSQ)
	for c.p+c.q+c.sp+c.sq > s.cfg.MaxOrder {
		switch {
		case c.q > 0:
			c.q--
		case c.p > 0:
			c.p--
		case c.sq > 0:
			c.sq--
		default:
			c.sp--
		}
	}
	return c
}

func (s *searcher) inBounds(c candidate) bool {
	if c.p < 0 || c.q < 0 || c.sp < 0 || c.sq < 0 {
		return false
	}
	if c.p > s.cfg.MaxP || c.q > s.cfg.MaxQ || c.sp > s.cfg.MaxSP || c.sq > s.cfg.MaxSQ {
		return false
	}
	if c.p+c.q+c.sp+c.sq > s.cfg.MaxOrder {
		return false
	}
	// d+D >= 2 에서는 상수항 없음
	return !c.intercept || s.d+s.sd < 2
}

// try fits c once and reports whether it became the new best
func (s *searcher) try(c candidate) bool {
	if s.tried[c] || !s.inBounds(c) || s.evaluated >= s.cfg.MaxModels {
		return false
	}
	s.tried[c] = true
	s.evaluated++

	order := s.order(c)
	model, err := Fit(s.y, order)
	if err != nil {
		return false
	}
	// 정보기준 비교는 잔차 수가 모수 수보다 많을 때만
	if model.NEff() <= order.NumParams()+1 || math.IsNaN(model.AIC()) {
		return false
	}
	if s.best != nil && model.AIC() >= s.best.AIC() {
		return false
	}
	s.best = model
	s.bestKey = c
	return true
}

func (s *searcher) neighbours(c candidate) []candidate {
	moves := [][4]int{
		{0, 0, -1, 0}, {0, 0, 1, 0},
		{0, 0, 0, -1}, {0, 0, 0, 1},
		{0, 0, -1, -1}, {0, 0, 1, 1},
		{0, 0, -1, 1}, {0, 0, 1, -1},
		{-1, 0, 0, 0}, {1, 0, 0, 0},
		{0, -1, 0, 0}, {0, 1, 0, 0},
		{-1, -1, 0, 0}, {1, 1, 0, 0},
		{-1, 1, 0, 0}, {1, -1, 0, 0},
	}
	out := make([]candidate, 0, len(moves)+1)
	for _, mv := range moves {
		out = append(out, candidate{
			p:         c.p + mv[0],
			q:         c.q + mv[1],
			sp:        c.sp + mv[2],
			sq:        c.sq + mv[3],
			intercept: c.intercept,
		})
	}
	toggled := c
	toggled.intercept = !c.intercept
	return append(out, toggled)
}

// fallback fits (0,d,0)(0,D,0) without the sample-size guard used for
// comparison. Tiny training sets end up here.
func (s *searcher) fallback() (*SearchResult, error) {
	var lastErr error
	for _, intercept := range []bool{s.d+s.sd < 2, false} {
		model, err := Fit(s.y, s.order(candidate{intercept: intercept}))
		if err == nil {
			return &SearchResult{Best: model, Evaluated: s.evaluated + 1, Fallback: true}, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrNoModel, lastErr)
}
