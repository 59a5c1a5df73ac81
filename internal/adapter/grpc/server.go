package grpc

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/royaltymarket-backend/internal/auth"
	"github.com/simaogato/royaltymarket-backend/internal/domain"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/dashboard"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/listing"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/payout"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/registry"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/settlement"
	"github.com/simaogato/royaltymarket-backend/internal/usecase/treasury"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Server implements the MarketplaceService gRPC server
type Server struct {
	Registries        map[common.Address]*registry.Service
	ListingService    *listing.ListingService
	SettlementService *settlement.SettlementService
	TreasuryService   *treasury.TreasuryService
	PayoutService     *payout.Service
	DashboardService  *dashboard.DashboardService
}

var _ MarketplaceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	registries []*registry.Service,
	listingService *listing.ListingService,
	settlementService *settlement.SettlementService,
	treasuryService *treasury.TreasuryService,
	payoutService *payout.Service,
	dashboardService *dashboard.DashboardService,
) *Server {
	byAddress := make(map[common.Address]*registry.Service, len(registries))
	for _, r := range registries {
		byAddress[r.Address()] = r
	}
	return &Server{
		Registries:        byAddress,
		ListingService:    listingService,
		SettlementService: settlementService,
		TreasuryService:   treasuryService,
		PayoutService:     payoutService,
		DashboardService:  dashboardService,
	}
}

// Mint handles the Mint RPC
func (s *Server) Mint(ctx context.Context, req *MintRequest) (*MintResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := s.registry(req.Collection)
	if err != nil {
		return nil, err
	}

	asset, err := reg.Mint(ctx, registry.MintInput{Caller: caller, URI: req.Uri, RoyaltyBps: req.RoyaltyBps})
	if err != nil {
		return nil, mapError(err)
	}

	return &MintResponse{Asset: domainAssetToProto(asset)}, nil
}

// Burn handles the Burn RPC
func (s *Server) Burn(ctx context.Context, req *BurnRequest) (*BurnResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := s.registry(req.Collection)
	if err != nil {
		return nil, err
	}

	if err := reg.Burn(ctx, caller, req.AssetId); err != nil {
		return nil, mapError(err)
	}
	return &BurnResponse{}, nil
}

// Approve handles the Approve RPC
func (s *Server) Approve(ctx context.Context, req *ApproveRequest) (*ApproveResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := s.registry(req.Collection)
	if err != nil {
		return nil, err
	}

	var spender common.Address
	if req.Spender != "" {
		if spender, err = parseAddress("spender", req.Spender); err != nil {
			return nil, err
		}
	}

	if err := reg.Approve(ctx, caller, spender, req.AssetId); err != nil {
		return nil, mapError(err)
	}
	return &ApproveResponse{}, nil
}

// TransferAsset handles the TransferAsset RPC. The caller moves an asset it owns or is approved for.
func (s *Server) TransferAsset(ctx context.Context, req *TransferAssetRequest) (*TransferAssetResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := s.registry(req.Collection)
	if err != nil {
		return nil, err
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		return nil, err
	}

	from, err := reg.OwnerOf(ctx, req.AssetId)
	if err != nil {
		return nil, mapError(err)
	}
	if err := reg.TransferFrom(ctx, caller, from, to, req.AssetId); err != nil {
		return nil, mapError(err)
	}
	return &TransferAssetResponse{}, nil
}

// GetAsset handles the GetAsset RPC
func (s *Server) GetAsset(ctx context.Context, req *GetAssetRequest) (*GetAssetResponse, error) {
	reg, err := s.registry(req.Collection)
	if err != nil {
		return nil, err
	}

	asset, err := reg.GetAsset(ctx, req.AssetId)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetAssetResponse{Asset: domainAssetToProto(asset)}, nil
}

// RoyaltyInfo handles the RoyaltyInfo RPC
func (s *Server) RoyaltyInfo(ctx context.Context, req *RoyaltyInfoRequest) (*RoyaltyInfoResponse, error) {
	reg, err := s.registry(req.Collection)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount("sale_price", req.SalePrice)
	if err != nil {
		return nil, err
	}

	creator, amount, err := reg.RoyaltyInfo(ctx, req.AssetId, price)
	if err != nil {
		return nil, mapError(err)
	}
	return &RoyaltyInfoResponse{Creator: creator.Hex(), RoyaltyAmount: amount.String()}, nil
}

// Pause handles the Pause RPC
func (s *Server) Pause(ctx context.Context, req *PauseRequest) (*PauseResponse, error) {
	return s.setPaused(ctx, req, true)
}

// Unpause handles the Unpause RPC
func (s *Server) Unpause(ctx context.Context, req *PauseRequest) (*PauseResponse, error) {
	return s.setPaused(ctx, req, false)
}

func (s *Server) setPaused(ctx context.Context, req *PauseRequest, paused bool) (*PauseResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := s.registry(req.Collection)
	if err != nil {
		return nil, err
	}

	if paused {
		err = reg.Pause(ctx, caller)
	} else {
		err = reg.Unpause(ctx, caller)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &PauseResponse{Paused: paused}, nil
}

// ListItem handles the ListItem RPC
func (s *Server) ListItem(ctx context.Context, req *ListItemRequest) (*ListItemResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	collection, err := parseAddress("collection", req.Collection)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount("price", req.Price)
	if err != nil {
		return nil, err
	}

	l, err := s.ListingService.ListItem(ctx, listing.ListItemInput{
		Seller:     caller,
		Collection: collection,
		AssetID:    req.AssetId,
		Price:      price,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &ListItemResponse{Listing: domainListingToProto(l)}, nil
}

// GetListing handles the GetListing RPC
func (s *Server) GetListing(ctx context.Context, req *GetListingRequest) (*GetListingResponse, error) {
	l, err := s.ListingService.GetListing(ctx, req.ListingId)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetListingResponse{Listing: domainListingToProto(l)}, nil
}

// ListListings handles the ListListings RPC
func (s *Server) ListListings(ctx context.Context, req *ListListingsRequest) (*ListListingsResponse, error) {
	var filter domain.ListingFilter
	switch domain.ListingStatus(req.Status) {
	case "":
	case domain.ListingStatusActive, domain.ListingStatusSold:
		filter.Status = domain.ListingStatus(req.Status)
	default:
		return nil, status.Errorf(codes.InvalidArgument, "invalid status %q: must be ACTIVE or SOLD", req.Status)
	}
	if req.Seller != "" {
		seller, err := parseAddress("seller", req.Seller)
		if err != nil {
			return nil, err
		}
		filter.Seller = seller
	}

	limit := int(req.Limit)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if req.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "offset must be non-negative")
	}

	listings, total, err := s.ListingService.ListListings(ctx, filter, limit, int(req.Offset))
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListListingsResponse{
		Listings: make([]*Listing, 0, len(listings)),
		Total:    int32(total),
	}
	for _, l := range listings {
		resp.Listings = append(resp.Listings, domainListingToProto(l))
	}
	return resp, nil
}

// BuyItem handles the BuyItem RPC
func (s *Server) BuyItem(ctx context.Context, req *BuyItemRequest) (*BuyItemResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	payment, err := parseAmount("payment", req.Payment)
	if err != nil {
		return nil, err
	}

	sale, err := s.SettlementService.BuyItem(ctx, settlement.BuyItemInput{
		Buyer:     caller,
		ListingID: req.ListingId,
		Payment:   payment,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &BuyItemResponse{Sale: domainSaleToProto(sale)}, nil
}

// Initialize handles the Initialize RPC
func (s *Server) Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	administrator, err := parseAddress("administrator", req.Administrator)
	if err != nil {
		return nil, err
	}

	market, err := s.TreasuryService.Initialize(ctx, caller, req.FeeRateBps, administrator)
	if err != nil {
		return nil, mapError(err)
	}
	return &InitializeResponse{Market: domainMarketToProto(market)}, nil
}

// Withdraw handles the Withdraw RPC
func (s *Server) Withdraw(ctx context.Context, req *WithdrawRequest) (*WithdrawResponse, error) {
	caller, err := CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := s.TreasuryService.Withdraw(ctx, caller)
	if err != nil {
		return nil, mapError(err)
	}
	return &WithdrawResponse{Amount: amount.String()}, nil
}

// GetContractBalance handles the GetContractBalance RPC
func (s *Server) GetContractBalance(ctx context.Context, req *GetContractBalanceRequest) (*GetContractBalanceResponse, error) {
	balance, err := s.TreasuryService.GetContractBalance(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetContractBalanceResponse{Balance: balance.String()}, nil
}

// GetBalance handles the GetBalance RPC
func (s *Server) GetBalance(ctx context.Context, req *GetBalanceRequest) (*GetBalanceResponse, error) {
	account, err := parseAddress("account", req.Account)
	if err != nil {
		return nil, err
	}

	balance, err := s.PayoutService.BalanceOf(ctx, account)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetBalanceResponse{Balance: balance.String()}, nil
}

// Deposit handles the Deposit RPC. Only custodians may mint funds into an account.
func (s *Server) Deposit(ctx context.Context, req *DepositRequest) (*DepositResponse, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing caller identity")
	}
	if claims.Role != auth.RoleCustodian {
		return nil, status.Error(codes.PermissionDenied, "deposit requires the custodian role")
	}
	account, err := parseAddress("account", req.Account)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}

	balance, err := s.PayoutService.Deposit(ctx, account, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return &DepositResponse{Balance: balance.String()}, nil
}

// GetMarketSummary handles the GetMarketSummary RPC
func (s *Server) GetMarketSummary(ctx context.Context, req *GetMarketSummaryRequest) (*GetMarketSummaryResponse, error) {
	summary, err := s.DashboardService.GetMarketSummary(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return &GetMarketSummaryResponse{
		Initialized:     summary.Initialized,
		FeeRateBps:      summary.FeeRateBps,
		ActiveListings:  int32(summary.ActiveListings),
		SoldListings:    int32(summary.SoldListings),
		SalesCount:      int32(summary.SalesCount),
		Volume:          summary.Volume.String(),
		Royalties:       summary.Royalties.String(),
		PlatformFees:    summary.PlatformFees.String(),
		AccumulatedFees: summary.AccumulatedFees.String(),
	}, nil
}

// registry resolves the collection named in a request
func (s *Server) registry(collection string) (*registry.Service, error) {
	addr, err := parseAddress("collection", collection)
	if err != nil {
		return nil, err
	}
	reg, ok := s.Registries[addr]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "collection %s not found", addr.Hex())
	}
	return reg, nil
}

// parseAddress parses a hex account address
func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, status.Errorf(codes.InvalidArgument, "invalid %s format: %q is not a hex address", field, value)
	}
	return common.HexToAddress(value), nil
}

// parseAmount parses a decimal string amount
func parseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", field, err)
	}
	return amount, nil
}

// domainAssetToProto converts a domain Asset to its wire form
func domainAssetToProto(asset *domain.Asset) *Asset {
	a := &Asset{
		Collection: asset.Collection.Hex(),
		Id:         asset.ID,
		Owner:      asset.Owner.Hex(),
		Creator:    asset.Creator.Hex(),
		RoyaltyBps: asset.RoyaltyBps,
		Uri:        asset.URI,
		MintedAt:   asset.MintedAt,
	}
	if asset.Approved != (common.Address{}) {
		a.Approved = asset.Approved.Hex()
	}
	return a
}

// domainListingToProto converts a domain Listing to its wire form
func domainListingToProto(l *domain.Listing) *Listing {
	out := &Listing{
		Id:         l.ID,
		Collection: l.Collection.Hex(),
		AssetId:    l.AssetID,
		Seller:     l.Seller.Hex(),
		Price:      l.Price.String(),
		Status:     string(l.Status),
		CreatedAt:  l.CreatedAt,
		SoldAt:     l.SoldAt,
	}
	if l.Buyer != (common.Address{}) {
		out.Buyer = l.Buyer.Hex()
	}
	return out
}

// domainSaleToProto converts a domain Sale to its wire form
func domainSaleToProto(sale *domain.Sale) *Sale {
	return &Sale{
		Id:             sale.ID.String(),
		ListingId:      sale.ListingID,
		Collection:     sale.Collection.Hex(),
		AssetId:        sale.AssetID,
		Seller:         sale.Seller.Hex(),
		Buyer:          sale.Buyer.Hex(),
		Creator:        sale.Creator.Hex(),
		Price:          sale.Price.String(),
		Royalty:        sale.Royalty.String(),
		PlatformFee:    sale.PlatformFee.String(),
		SellerProceeds: sale.SellerProceeds.String(),
		SettledAt:      sale.SettledAt,
	}
}

// domainMarketToProto converts a domain Market to its wire form
func domainMarketToProto(m *domain.Market) *Market {
	out := &Market{
		Address:         m.Address.Hex(),
		Initialized:     m.Initialized,
		FeeRateBps:      m.FeeRateBps,
		AccumulatedFees: m.AccumulatedFees.String(),
		InitializedAt:   m.InitializedAt,
	}
	if m.Administrator != (common.Address{}) {
		out.Administrator = m.Administrator.Hex()
	}
	return out
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	errorMsg := err.Error()
	if code := domain.CodeOf(err); code != "" {
		errorMsg = code + ": " + errorMsg
	}

	switch domain.KindOf(err) {
	case domain.ErrorKindValidation:
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case domain.ErrorKindState:
		if errors.Is(err, domain.ErrNoSuchAsset) ||
			errors.Is(err, domain.ErrNoSuchListing) ||
			errors.Is(err, domain.ErrUnknownCollection) ||
			errors.Is(err, domain.ErrMarketNotFound) {
			return status.Errorf(codes.NotFound, "%s", errorMsg)
		}
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case domain.ErrorKindAuthorization:
		return status.Errorf(codes.PermissionDenied, "%s", errorMsg)
	case domain.ErrorKindArithmetic:
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
