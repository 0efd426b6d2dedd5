package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/BOLT4L/SaleForecast/internal/stattest"
)

var (
	// ErrTooFewObservations 차분/조건화 후 잔차가 남지 않음
	ErrTooFewObservations = errors.New("arima: too few observations for order")
	// ErrInvalidOrder 음수 차수 또는 계절 주기 누락
	ErrInvalidOrder = errors.New("arima: invalid order")
	// ErrNotConverged 최적화 결과가 유한하지 않음
	ErrNotConverged = errors.New("arima: estimation did not converge")
)

// infeasible 정상성/가역성 위반 시 목적함수 값
const infeasible = 1e12

// Order (p,d,q)(P,D,Q)[m] 차수와 상수항 여부
type Order struct {
	P, D, Q    int
	SP, SD, SQ int
	M          int
	Intercept  bool
}

// String formats the order the way model summaries print it
func (o Order) String() string {
	s := fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
	if o.seasonal() {
		s += fmt.Sprintf("(%d,%d,%d)[%d]", o.SP, o.SD, o.SQ, o.M)
	}
	if o.Intercept {
		s += " intercept"
	}
	return s
}

// NumParams counts estimated coefficients (σ² excluded)
func (o Order) NumParams() int {
	k := o.P + o.Q + o.SP + o.SQ
	if o.Intercept {
		k++
	}
	return k
}

func (o Order) seasonal() bool {
	return o.M > 1 && (o.SP > 0 || o.SD > 0 || o.SQ > 0)
}

func (o Order) validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.SP < 0 || o.SD < 0 || o.SQ < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOrder, o)
	}
	if (o.SP > 0 || o.SD > 0 || o.SQ > 0) && o.M < 2 {
		return fmt.Errorf("%w: seasonal terms need m >= 2", ErrInvalidOrder)
	}
	return nil
}

// differencing returns the total lag consumed by differencing
func (o Order) differencing() int {
	return o.D + o.M*o.SD
}

// Model 조건부 제곱합(CSS)으로 추정된 SARIMA 모형
type Model struct {
	order Order
	y     []float64

	phi, theta   []float64
	sphi, stheta []float64
	mu           float64

	ar []float64 // 차분 후 AR 재귀 계수 (lag 1부터)
	ma []float64 // MA 재귀 계수 (lag 1부터)

	arFull   []float64 // 원 시계열 y에 대한 AR 재귀 계수 (차분 포함)
	constant float64

	residuals []float64 // y 인덱스 기준, 정의되지 않은 곳은 NaN
	sigma2    float64
	nEff      int
	aic       float64
}

// Fit estimates the model on y by minimising the conditional sum of squares
// with Nelder-Mead. Non-stationary AR or non-invertible MA parameter
// vectors are rejected during the search.
func Fit(y []float64, order Order) (*Model, error) {
	if err := order.validate(); err != nil {
		return nil, err
	}

	w := append([]float64(nil), y...)
	for i := 0; i < order.SD; i++ {
		w = stattest.Diff(w, order.M)
	}
	for i := 0; i < order.D; i++ {
		w = stattest.Diff(w, 1)
	}

	cond := order.P + order.M*order.SP
	if len(w)-cond < 1 {
		return nil, fmt.Errorf("%w: %s on %d points", ErrTooFewObservations, order, len(y))
	}

	// 스케일만 정규화 (계수는 스케일 불변)
	scale := 1.0
	if len(w) > 1 {
		if sd := stat.StdDev(w, nil); sd > 0 && !math.IsNaN(sd) {
			scale = sd
		}
	}
	if scale == 1.0 {
		if mx := floats.Max(absAll(w)); mx > 0 {
			scale = mx
		}
	}
	z := make([]float64, len(w))
	for i, v := range w {
		z[i] = v / scale
	}

	m := &Model{order: order, y: append([]float64(nil), y...)}

	x0 := make([]float64, order.NumParams())
	if order.Intercept {
		x0[len(x0)-1] = stat.Mean(z, nil)
	}

	objective := func(x []float64) float64 {
		m.unpack(x)
		if !m.admissible() {
			return infeasible
		}
		_, ssr := cssResiduals(z, m.ar, m.ma, m.mu, cond)
		if math.IsNaN(ssr) || math.IsInf(ssr, 0) || ssr > infeasible {
			return infeasible
		}
		return ssr
	}

	best := x0
	if len(x0) > 0 {
		settings := &optimize.Settings{
			FuncEvaluations: 1000 * (len(x0) + 1),
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-10,
				Relative:   1e-10,
				Iterations: 100,
			},
		}
		result, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, &optimize.NelderMead{SimplexSize: 0.1})
		if result == nil {
			return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
		}
		if result.F < objective(x0) {
			best = result.X
		}
	}

	m.unpack(best)
	if !m.admissible() {
		return nil, fmt.Errorf("%w: %s", ErrNotConverged, order)
	}
	e, ssr := cssResiduals(z, m.ar, m.ma, m.mu, cond)
	if math.IsNaN(ssr) || math.IsInf(ssr, 0) {
		return nil, fmt.Errorf("%w: %s", ErrNotConverged, order)
	}

	// 원 스케일로 복원
	m.mu *= scale
	dd := order.differencing()
	m.residuals = make([]float64, len(y))
	for t := range m.residuals {
		m.residuals[t] = math.NaN()
	}
	for s := cond; s < len(e); s++ {
		m.residuals[s+dd] = e[s] * scale
	}

	m.nEff = len(w) - cond
	m.sigma2 = ssr * scale * scale / float64(m.nEff)
	loglik := -0.5 * float64(m.nEff) * (math.Log(2*math.Pi*m.sigma2) + 1)
	m.aic = -2*loglik + 2*float64(order.NumParams()+1)

	a := polyMul(arPoly(m.phi, 1), arPoly(m.sphi, order.M))
	full := polyMul(polyMul(a, diffPoly(order.D, 1)), diffPoly(order.SD, order.M))
	m.arFull = negTail(full)
	m.constant = m.mu * floats.Sum(a)

	return m, nil
}

// unpack splits the flat parameter vector into the coefficient groups
// [φ..., θ..., Φ..., Θ..., μ] and refreshes the expanded recursions.
func (m *Model) unpack(x []float64) {
	o := m.order
	i := 0
	take := func(n int) []float64 {
		s := x[i : i+n]
		i += n
		return s
	}
	m.phi = take(o.P)
	m.theta = take(o.Q)
	m.sphi = take(o.SP)
	m.stheta = take(o.SQ)
	m.mu = 0
	if o.Intercept {
		m.mu = x[i]
	}

	m.ar = negTail(polyMul(arPoly(m.phi, 1), arPoly(m.sphi, max(o.M, 1))))
	m.ma = polyMul(maPoly(m.theta, 1), maPoly(m.stheta, max(o.M, 1)))[1:]
}

// admissible 비계절/계절 인수를 각각 검사 (곱의 근 = 인수 근의 합집합)
func (m *Model) admissible() bool {
	return stableRecursion(m.phi) && stableRecursion(m.sphi) &&
		invertible(m.theta) && invertible(m.stheta)
}

// cssResiduals runs the ARMA recursion on z from index cond onwards.
// Earlier residuals are zero.
func cssResiduals(z, ar, ma []float64, mu float64, cond int) ([]float64, float64) {
	e := make([]float64, len(z))
	ssr := 0.0
	for t := cond; t < len(z); t++ {
		v := z[t] - mu
		for i, a := range ar {
			v -= a * (z[t-1-i] - mu)
		}
		for j, b := range ma {
			if k := t - 1 - j; k >= 0 {
				v -= b * e[k]
			}
		}
		e[t] = v
		ssr += v * v
	}
	return e, ssr
}

// Forecast 점 예측과 구간
type Forecast struct {
	Mean  []float64
	Lower []float64
	Upper []float64
}

// Forecast projects h steps past the end of the training series with a
// (1-alpha) normal interval built from the ψ-weight variance.
func (m *Model) Forecast(h int, alpha float64) Forecast {
	n := len(m.y)
	yy := make([]float64, n, n+h)
	copy(yy, m.y)
	ee := make([]float64, n, n+h)
	for t, r := range m.residuals {
		if !math.IsNaN(r) {
			ee[t] = r
		}
	}

	out := Forecast{
		Mean:  make([]float64, h),
		Lower: make([]float64, h),
		Upper: make([]float64, h),
	}
	for k := 0; k < h; k++ {
		t := n + k
		v := m.constant
		for i, a := range m.arFull {
			if j := t - 1 - i; j >= 0 {
				v += a * yy[j]
			}
		}
		for i, b := range m.ma {
			if j := t - 1 - i; j >= 0 {
				v += b * ee[j]
			}
		}
		yy = append(yy, v)
		ee = append(ee, 0)
		out.Mean[k] = v
	}

	psi := m.psiWeights(h)
	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	cum := 0.0
	for k := 0; k < h; k++ {
		cum += psi[k] * psi[k]
		half := z * math.Sqrt(m.sigma2*cum)
		out.Lower[k] = out.Mean[k] - half
		out.Upper[k] = out.Mean[k] + half
	}
	return out
}

// psiWeights returns the first h MA(∞) weights of the full model
func (m *Model) psiWeights(h int) []float64 {
	psi := make([]float64, h)
	if h == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < h; j++ {
		v := 0.0
		if j-1 < len(m.ma) {
			v = m.ma[j-1]
		}
		for i := 1; i <= j && i <= len(m.arFull); i++ {
			v += m.arFull[i-1] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// Fitted returns in-sample one-step predictions aligned with the training
// series. Positions consumed by differencing or AR conditioning are NaN.
func (m *Model) Fitted() []float64 {
	out := make([]float64, len(m.y))
	for t, r := range m.residuals {
		out[t] = m.y[t] - r
	}
	return out
}

// Order returns the fitted order
func (m *Model) Order() Order { return m.order }

// AIC returns the CSS-based Akaike information criterion
func (m *Model) AIC() float64 { return m.aic }

// Sigma2 returns the innovation variance estimate
func (m *Model) Sigma2() float64 { return m.sigma2 }

// NEff returns the number of residuals used in estimation
func (m *Model) NEff() int { return m.nEff }

// Coefficients returns the estimated parameters keyed by name
func (m *Model) Coefficients() map[string]float64 {
	out := make(map[string]float64)
	for i, v := range m.phi {
		out[fmt.Sprintf("ar.L%d", i+1)] = v
	}
	for i, v := range m.theta {
		out[fmt.Sprintf("ma.L%d", i+1)] = v
	}
	for i, v := range m.sphi {
		out[fmt.Sprintf("ar.S.L%d", (i+1)*m.order.M)] = v
	}
	for i, v := range m.stheta {
		out[fmt.Sprintf("ma.S.L%d", (i+1)*m.order.M)] = v
	}
	if m.order.Intercept {
		out["intercept"] = m.mu
	}
	return out
}

func negTail(p []float64) []float64 {
	out := make([]float64, len(p)-1)
	for i, v := range p[1:] {
		out[i] = -v
	}
	return out
}

func absAll(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Abs(v)
	}
	return out
}
