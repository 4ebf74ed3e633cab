package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	carrierdomain "github.com/hermeshq/hermes/internal/carrier/domain"
	"github.com/hermeshq/hermes/internal/config"
	"github.com/hermeshq/hermes/internal/observability/metrics"
	pmidomain "github.com/hermeshq/hermes/internal/pmi/domain"
	quotedomain "github.com/hermeshq/hermes/internal/quote/domain"
	quotelogdomain "github.com/hermeshq/hermes/internal/quotelog/domain"
	ratecarddomain "github.com/hermeshq/hermes/internal/ratecard/domain"
	titledomain "github.com/hermeshq/hermes/internal/title/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Engine   *config.EngineConfigHolder
	Metrics  *metrics.Metrics `optional:"true"`
	Carriers carrierdomain.Service
	PMI      pmidomain.Service
	Title    titledomain.Service
	Logbook  quotelogdomain.Service
}

type Service struct {
	log      *zap.Logger
	engine   *config.EngineConfigHolder
	metrics  *metrics.Metrics
	carriers carrierdomain.Service
	pmi      pmidomain.Service
	title    titledomain.Service
	logbook  quotelogdomain.Service
}

func NewService(p Params) quotedomain.Service {
	return &Service{
		log:      p.Log.Named("quote.service"),
		engine:   p.Engine,
		metrics:  p.Metrics,
		carriers: p.Carriers,
		pmi:      p.PMI,
		title:    p.Title,
		logbook:  p.Logbook,
	}
}

// QuotePMI fans the request out across every eligible carrier, ranks the
// surviving quotes by annual premium, and writes one audit entry whatever
// the outcome. One carrier's defect never aborts the batch.
func (s *Service) QuotePMI(ctx context.Context, req quotedomain.PMIQuoteRequest) (*quotedomain.PMIQuoteResult, error) {
	start := time.Now()
	if err := validatePMIRequest(&req); err != nil {
		s.logbook.AppendPMI(ctx, quotelogdomain.Entry{
			Request:      req,
			Response:     map[string]any{"error": err.Error()},
			ProcessingMS: float64(time.Since(start).Microseconds()) / 1000,
			Source:       req.Source,
		})
		return nil, err
	}

	cfg := s.engine.Get()
	ctx, cancel := context.WithTimeout(ctx, cfg.QuoteTimeout)
	defer cancel()

	asOf := time.Now().UTC()
	ltv := req.LoanAmount / req.PropertyValue * 100
	coverage := req.CoveragePct
	if coverage == 0 {
		coverage = pmidomain.RequiredCoverage(ltv)
	}

	result := &quotedomain.PMIQuoteResult{
		RequestID:   uuid.New(),
		Outcome:     quotedomain.OutcomeNoQuoteAvailable,
		LTV:         ltv,
		CoveragePct: coverage,
	}

	// At or below 80 LTV no mortgage insurance is required; an empty result
	// is the correct answer, and it is still audited.
	if ltv <= 80 {
		s.finishPMI(ctx, req, result, start)
		return result, nil
	}

	carriers, err := s.carriers.EligibleCarriers(ctx, req.State, carrierdomain.LinePMI)
	if err != nil {
		s.logbook.AppendPMI(context.WithoutCancel(ctx), quotelogdomain.Entry{
			Request:      req,
			Response:     map[string]any{"error": err.Error()},
			ProcessingMS: float64(time.Since(start).Microseconds()) / 1000,
			Source:       req.Source,
		})
		return nil, err
	}
	carriers = filterCarriers(carriers, req.CarrierIDs)

	engineReq := pmidomain.Request{
		State:         req.State,
		LoanAmount:    req.LoanAmount,
		PropertyValue: req.PropertyValue,
		FICOScore:     req.FICOScore,
		CoveragePct:   coverage,
		DTI:           req.DTI,
		Occupancy:     req.Occupancy,
		PropertyType:  req.PropertyType,
		LoanPurpose:   req.LoanPurpose,
	}
	if req.PremiumType != nil {
		engineReq.PremiumTypes = []ratecarddomain.PremiumType{*req.PremiumType}
	}

	type slot struct {
		quotes  []pmidomain.CarrierQuote
		failure *quotedomain.CarrierFailure
	}
	slots := make([]slot, len(carriers))

	var g errgroup.Group
	g.SetLimit(cfg.MaxConcurrentCarriers)
	for i, carrier := range carriers {
		g.Go(func() error {
			quotes, err := s.pmi.PriceCarrier(ctx, carrier, engineReq, asOf)
			switch {
			case err != nil:
				slots[i].failure = carrierFailure(carrier, classifyError(err), err.Error())
			case len(quotes) == 0:
				slots[i].failure = carrierFailure(carrier, quotedomain.ReasonNotFound, "no applicable rate card or grid cell")
			default:
				slots[i].quotes = quotes
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, sl := range slots {
		if sl.failure != nil {
			result.Failures = append(result.Failures, *sl.failure)
			s.observeFailure("pmi", sl.failure.Reason)
			continue
		}
		result.CarriersQuoted++
		result.Quotes = append(result.Quotes, sl.quotes...)
	}

	sort.SliceStable(result.Quotes, func(i, j int) bool {
		if result.Quotes[i].AnnualPremium != result.Quotes[j].AnnualPremium {
			return result.Quotes[i].AnnualPremium < result.Quotes[j].AnnualPremium
		}
		return result.Quotes[i].CarrierName < result.Quotes[j].CarrierName
	})

	if len(result.Quotes) > 0 {
		result.Outcome = quotedomain.OutcomeQuoted
		result.Best = &result.Quotes[0]
		for i := range result.Quotes {
			if result.Quotes[i].PremiumType == ratecarddomain.PremiumMonthly {
				result.BestMonthly = &result.Quotes[i]
				break
			}
		}
	}

	s.finishPMI(ctx, req, result, start)
	return result, nil
}

// QuoteTitle mirrors QuotePMI for title policies, ranking by total premium.
func (s *Service) QuoteTitle(ctx context.Context, req quotedomain.TitleQuoteRequest) (*quotedomain.TitleQuoteResult, error) {
	start := time.Now()
	if err := validateTitleRequest(&req); err != nil {
		s.logbook.AppendTitle(ctx, quotelogdomain.Entry{
			Request:      req,
			Response:     map[string]any{"error": err.Error()},
			ProcessingMS: float64(time.Since(start).Microseconds()) / 1000,
			Source:       req.Source,
		})
		return nil, err
	}

	cfg := s.engine.Get()
	ctx, cancel := context.WithTimeout(ctx, cfg.QuoteTimeout)
	defer cancel()

	asOf := time.Now().UTC()
	result := &quotedomain.TitleQuoteResult{
		RequestID: uuid.New(),
		Outcome:   quotedomain.OutcomeNoQuoteAvailable,
	}

	carriers, err := s.carriers.EligibleCarriers(ctx, req.State, carrierdomain.LineTitle)
	if err != nil {
		s.logbook.AppendTitle(context.WithoutCancel(ctx), quotelogdomain.Entry{
			Request:      req,
			Response:     map[string]any{"error": err.Error()},
			ProcessingMS: float64(time.Since(start).Microseconds()) / 1000,
			Source:       req.Source,
		})
		return nil, err
	}
	carriers = filterCarriers(carriers, req.CarrierIDs)

	engineReq := titledomain.Request{
		State:                 req.State,
		PolicyType:            req.PolicyType,
		PurchasePrice:         req.PurchasePrice,
		LoanAmount:            req.LoanAmount,
		IsRefinance:           req.IsRefinance,
		YearsSincePriorPolicy: req.YearsSincePriorPolicy,
		EndorsementCodes:      req.EndorsementCodes,
	}

	type slot struct {
		quote   *titledomain.CarrierQuote
		failure *quotedomain.CarrierFailure
	}
	slots := make([]slot, len(carriers))

	var g errgroup.Group
	g.SetLimit(cfg.MaxConcurrentCarriers)
	for i, carrier := range carriers {
		g.Go(func() error {
			quote, err := s.title.PriceCarrier(ctx, carrier, engineReq, asOf)
			switch {
			case err != nil:
				slots[i].failure = carrierFailure(carrier, classifyError(err), err.Error())
			case quote == nil:
				slots[i].failure = carrierFailure(carrier, quotedomain.ReasonNotFound, "no applicable rate card")
			default:
				slots[i].quote = quote
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, sl := range slots {
		if sl.failure != nil {
			result.Failures = append(result.Failures, *sl.failure)
			s.observeFailure("title", sl.failure.Reason)
			continue
		}
		result.CarriersQuoted++
		result.Quotes = append(result.Quotes, *sl.quote)
	}

	sort.SliceStable(result.Quotes, func(i, j int) bool {
		if result.Quotes[i].TotalPremium != result.Quotes[j].TotalPremium {
			return result.Quotes[i].TotalPremium < result.Quotes[j].TotalPremium
		}
		return result.Quotes[i].CarrierName < result.Quotes[j].CarrierName
	})

	if len(result.Quotes) > 0 {
		result.Outcome = quotedomain.OutcomeQuoted
		result.Best = &result.Quotes[0]
		var bestSavings *titledomain.CarrierQuote
		for i := range result.Quotes {
			q := &result.Quotes[i]
			if q.SimultaneousSavings > 0 && (bestSavings == nil || q.SimultaneousSavings > bestSavings.SimultaneousSavings) {
				bestSavings = q
			}
		}
		result.BestSavings = bestSavings
	}

	s.finishTitle(ctx, req, result, start)
	return result, nil
}

func (s *Service) QuickQuotePMI(ctx context.Context, loanAmount, propertyValue float64, fico int, state string) (*quotedomain.PMIQuoteResult, error) {
	return s.QuotePMI(ctx, quotedomain.PMIQuoteRequest{
		State:         state,
		LoanAmount:    loanAmount,
		PropertyValue: propertyValue,
		FICOScore:     fico,
	})
}

// QuickQuoteTitle defaults to a simultaneous policy when a loan is present.
func (s *Service) QuickQuoteTitle(ctx context.Context, purchasePrice, loanAmount float64, state string) (*quotedomain.TitleQuoteResult, error) {
	policyType := ratecarddomain.PolicyOwner
	if loanAmount > 0 {
		policyType = ratecarddomain.PolicySimultaneous
	}
	return s.QuoteTitle(ctx, quotedomain.TitleQuoteRequest{
		State:         state,
		PolicyType:    policyType,
		PurchasePrice: purchasePrice,
		LoanAmount:    loanAmount,
	})
}

func (s *Service) finishPMI(ctx context.Context, req quotedomain.PMIQuoteRequest, result *quotedomain.PMIQuoteResult, start time.Time) {
	result.ProcessingMS = float64(time.Since(start).Microseconds()) / 1000

	var bestRate *float64
	var bestCarrier *snowflake.ID
	if result.Best != nil {
		bestRate = &result.Best.AdjustedRatePct
		bestCarrier = &result.Best.CarrierID
	}

	// The audit write survives the per-request deadline.
	s.logbook.AppendPMI(context.WithoutCancel(ctx), quotelogdomain.Entry{
		Request: req,
		Response: map[string]any{
			"request_id":      result.RequestID,
			"outcome":         result.Outcome,
			"carriers_quoted": result.CarriersQuoted,
			"quotes_returned": len(result.Quotes),
			"best_annual":     bestAnnual(result),
			"failures":        result.Failures,
		},
		CarriersQuoted: result.CarriersQuoted,
		BestRate:       bestRate,
		BestCarrierID:  bestCarrier,
		ProcessingMS:   result.ProcessingMS,
		Source:         req.Source,
	})

	s.metrics.ObserveQuote("pmi", string(result.Outcome), result.CarriersQuoted, time.Since(start).Seconds())
	s.log.Info("pmi quote completed",
		zap.String("request_id", result.RequestID.String()),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("carriers_quoted", result.CarriersQuoted),
		zap.Int("failures", len(result.Failures)),
		zap.Float64("processing_ms", result.ProcessingMS),
	)
}

func (s *Service) finishTitle(ctx context.Context, req quotedomain.TitleQuoteRequest, result *quotedomain.TitleQuoteResult, start time.Time) {
	result.ProcessingMS = float64(time.Since(start).Microseconds()) / 1000

	var bestPremium *float64
	var bestCarrier *snowflake.ID
	if result.Best != nil {
		bestPremium = &result.Best.TotalPremium
		bestCarrier = &result.Best.CarrierID
	}

	s.logbook.AppendTitle(context.WithoutCancel(ctx), quotelogdomain.Entry{
		Request: req,
		Response: map[string]any{
			"request_id":      result.RequestID,
			"outcome":         result.Outcome,
			"carriers_quoted": result.CarriersQuoted,
			"quotes_returned": len(result.Quotes),
			"best_total":      bestPremium,
			"failures":        result.Failures,
		},
		CarriersQuoted: result.CarriersQuoted,
		BestPremium:    bestPremium,
		BestCarrierID:  bestCarrier,
		ProcessingMS:   result.ProcessingMS,
		Source:         req.Source,
	})

	s.metrics.ObserveQuote("title", string(result.Outcome), result.CarriersQuoted, time.Since(start).Seconds())
	s.log.Info("title quote completed",
		zap.String("request_id", result.RequestID.String()),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("carriers_quoted", result.CarriersQuoted),
		zap.Int("failures", len(result.Failures)),
		zap.Float64("processing_ms", result.ProcessingMS),
	)
}

func (s *Service) observeFailure(product string, reason quotedomain.FailureReason) {
	// NOT_FOUND is an expected outcome, not an operational signal.
	if reason == quotedomain.ReasonNotFound {
		return
	}
	s.metrics.ObserveCarrierFailure(product, string(reason))
}

func bestAnnual(result *quotedomain.PMIQuoteResult) *float64 {
	if result.Best == nil {
		return nil
	}
	return &result.Best.AnnualPremium
}

func carrierFailure(carrier carrierdomain.Carrier, reason quotedomain.FailureReason, detail string) *quotedomain.CarrierFailure {
	return &quotedomain.CarrierFailure{
		CarrierID:   carrier.ID,
		CarrierName: carrier.LegalName,
		Reason:      reason,
		Detail:      detail,
	}
}

// classifyError maps an engine error onto the failure taxonomy. Anything
// that is not a deadline or a known data defect is reported as a
// configuration problem so the carrier is excluded but diagnosable.
func classifyError(err error) quotedomain.FailureReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return quotedomain.ReasonTimeout
	case errors.Is(err, pmidomain.ErrAmbiguousGrid), errors.Is(err, titledomain.ErrAmbiguousTiers):
		return quotedomain.ReasonAmbiguousGrid
	default:
		return quotedomain.ReasonConfigurationError
	}
}

func filterCarriers(carriers []carrierdomain.Carrier, ids []snowflake.ID) []carrierdomain.Carrier {
	if len(ids) == 0 {
		return carriers
	}
	wanted := make(map[snowflake.ID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	filtered := carriers[:0:0]
	for _, c := range carriers {
		if wanted[c.ID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func validatePMIRequest(req *quotedomain.PMIQuoteRequest) error {
	var err error
	req.State, err = normalizeState(req.State)
	if err != nil {
		return err
	}
	if req.LoanAmount <= 0 || req.PropertyValue <= 0 {
		return fmt.Errorf("%w: loan amount and property value must be positive", quotedomain.ErrInvalidRequest)
	}
	if req.FICOScore < 300 || req.FICOScore > 850 {
		return fmt.Errorf("%w: fico score %d out of range", quotedomain.ErrInvalidRequest, req.FICOScore)
	}
	if req.CoveragePct < 0 || req.CoveragePct > 100 {
		return fmt.Errorf("%w: coverage percent %.2f out of range", quotedomain.ErrInvalidRequest, req.CoveragePct)
	}
	return nil
}

func validateTitleRequest(req *quotedomain.TitleQuoteRequest) error {
	var err error
	req.State, err = normalizeState(req.State)
	if err != nil {
		return err
	}
	switch req.PolicyType {
	case ratecarddomain.PolicyOwner, ratecarddomain.PolicyLender, ratecarddomain.PolicySimultaneous:
	default:
		return fmt.Errorf("%w: unknown policy type %q", quotedomain.ErrInvalidRequest, req.PolicyType)
	}
	if req.PolicyType == ratecarddomain.PolicyLender {
		if req.LoanAmount <= 0 {
			return fmt.Errorf("%w: lender policy requires a positive loan amount", quotedomain.ErrInvalidRequest)
		}
	} else if req.PurchasePrice <= 0 {
		return fmt.Errorf("%w: purchase price must be positive", quotedomain.ErrInvalidRequest)
	}
	if req.LoanAmount < 0 {
		return fmt.Errorf("%w: loan amount must not be negative", quotedomain.ErrInvalidRequest)
	}
	return nil
}

func normalizeState(state string) (string, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if len(state) != 2 || state[0] < 'A' || state[0] > 'Z' || state[1] < 'A' || state[1] > 'Z' {
		return "", fmt.Errorf("%w: state %q is not a two-letter code", quotedomain.ErrInvalidRequest, state)
	}
	return state, nil
}
