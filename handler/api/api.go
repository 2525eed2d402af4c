package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/oxtoacart/bpool"
	"github.com/pandodao/launchpad/core"
	"github.com/pandodao/launchpad/store"
	"github.com/twitchtv/twirp"
)

type Config struct {
	// Operator is the identity allowed to withdraw protocol fees;
	// OperatorKey is the shared secret that proves it.
	Operator    string `valid:"required"`
	OperatorKey string `valid:"required"`
}

func New(
	exchange core.ExchangeService,
	trades core.TradeStore,
	treasury core.TreasuryStore,
	logger *slog.Logger,
	cfg Config,
) *Server {
	if _, err := govalidator.ValidateStruct(cfg); err != nil {
		panic(err)
	}

	return &Server{
		exchange: exchange,
		trades:   trades,
		treasury: treasury,
		logger:   logger.With("server", "api"),
		bufs:     bpool.NewBufferPool(64),
		cfg:      cfg,
	}
}

type Server struct {
	exchange core.ExchangeService
	trades   core.TradeStore
	treasury core.TreasuryStore
	logger   *slog.Logger
	bufs     *bpool.BufferPool
	cfg      Config
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", s.listAssets)
		r.Post("/", s.createAsset)

		r.Route("/{asset_id}", func(r chi.Router) {
			r.Get("/", s.getAsset)
			r.Get("/trades", s.listTrades)
			r.Get("/quotes/buy", s.quoteBuy)
			r.Get("/quotes/sell", s.quoteSell)
			r.Get("/quotes/exact-in", s.quoteExactIn)
			r.Post("/buy", s.buy)
			r.Post("/buy-exact-in", s.buyExactIn)
			r.Post("/sell", s.sell)
		})
	})

	r.Route("/treasury", func(r chi.Router) {
		r.Get("/", s.treasuryBalance)
		r.Post("/withdraw", s.withdraw)
	})

	return r
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("malformed body"))
		return
	}

	payment, err := parseAmount(req.Payment)
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid payment"))
		return
	}

	asset, err := s.exchange.CreateAsset(r.Context(), core.CreateAssetInput{
		TraceID:     req.TraceID,
		Creator:     actor(r),
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Payment:     payment,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, viewAsset(asset))
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.exchange.GetAsset(r.Context(), chi.URLParam(r, "asset_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, viewAsset(asset))
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.exchange.ListAssets(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]assetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, viewAsset(asset))
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"assets": views})
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	events, err := s.trades.ListAsset(r.Context(), chi.URLParam(r, "asset_id"), 100)
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]tradeView, 0, len(events))
	for _, event := range events {
		views = append(views, viewTrade(event))
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"trades": views})
}

func (s *Server) quoteBuy(w http.ResponseWriter, r *http.Request) {
	quantity, err := parseQuantity(r.URL.Query().Get("quantity"))
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid quantity"))
		return
	}

	cost, err := s.exchange.QuoteCost(r.Context(), chi.URLParam(r, "asset_id"), quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"cost": currency(cost)})
}

func (s *Server) quoteSell(w http.ResponseWriter, r *http.Request) {
	quantity, err := parseQuantity(r.URL.Query().Get("quantity"))
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid quantity"))
		return
	}

	refund, err := s.exchange.QuoteRefund(r.Context(), chi.URLParam(r, "asset_id"), quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"refund": currency(refund)})
}

func (s *Server) quoteExactIn(w http.ResponseWriter, r *http.Request) {
	payment, err := parseAmount(r.URL.Query().Get("payment"))
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid payment"))
		return
	}

	quantity, err := s.exchange.QuoteTokensForPayment(r.Context(), chi.URLParam(r, "asset_id"), payment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"quantity": tokens(quantity)})
}

func (s *Server) buy(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("malformed body"))
		return
	}

	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid quantity"))
		return
	}

	payment, err := parseAmount(req.Payment)
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid payment"))
		return
	}

	result, err := s.exchange.Buy(r.Context(), chi.URLParam(r, "asset_id"), actor(r), quantity, payment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, viewBuyResult(result))
}

func (s *Server) buyExactIn(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("malformed body"))
		return
	}

	payment, err := parseAmount(req.Payment)
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid payment"))
		return
	}

	result, err := s.exchange.BuyExactIn(r.Context(), chi.URLParam(r, "asset_id"), actor(r), payment)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, viewBuyResult(result))
}

func (s *Server) sell(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("malformed body"))
		return
	}

	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("invalid quantity"))
		return
	}

	result, err := s.exchange.Sell(r.Context(), chi.URLParam(r, "asset_id"), actor(r), quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, viewSellResult(result))
}

func (s *Server) treasuryBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.treasury.Balance(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"balance": currency(balance)})
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Operator-Key") != s.cfg.OperatorKey {
		s.writeError(w, twirp.PermissionDenied.Error("operator key required"))
		return
	}

	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, twirp.InvalidArgument.Error("malformed body"))
		return
	}

	amount, err := s.exchange.WithdrawFees(r.Context(), s.cfg.Operator, req.To)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"amount": currency(amount)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	buf := s.bufs.Get()
	defer s.bufs.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var terr twirp.Error
	if !errors.As(err, &terr) {
		terr = translateError(err)
	}

	if terr.Code() == twirp.Internal {
		s.logger.Error("request failed", "err", err)
	}

	_ = twirp.WriteError(w, terr)
}

func translateError(err error) twirp.Error {
	switch {
	case errors.Is(err, core.ErrUnknownAsset) || store.IsErrNotFound(err):
		return twirp.NotFoundError("asset not found")
	case errors.Is(err, core.ErrAlreadyLaunched):
		return twirp.FailedPrecondition.Error("asset already launched")
	case errors.Is(err, core.ErrInsufficientPayment):
		return twirp.Aborted.Error("insufficient payment")
	case errors.Is(err, core.ErrInsufficientBalance):
		return twirp.Aborted.Error("insufficient balance")
	case errors.Is(err, core.ErrInsufficientReserve):
		return twirp.Aborted.Error("insufficient reserve")
	case errors.Is(err, core.ErrReentrantCall):
		return twirp.Unavailable.Error("call in progress")
	case errors.Is(err, core.ErrNotOperator):
		return twirp.PermissionDenied.Error("not the operator")
	case errors.Is(err, core.ErrOverflow):
		return twirp.Internal.Error("arithmetic overflow")
	case errors.Is(err, core.ErrTransferFailed):
		return twirp.Unavailable.Error("transfer failed")
	default:
		return twirp.InternalErrorWith(err)
	}
}

// actor is the authenticated caller identity; authentication itself is the
// transport gateway's concern.
func actor(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}
