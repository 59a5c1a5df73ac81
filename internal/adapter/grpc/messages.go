package grpc

import "time"

// Asset is the wire form of domain.Asset
type Asset struct {
	Collection string    `json:"collection"`
	Id         uint64    `json:"id"`
	Owner      string    `json:"owner"`
	Creator    string    `json:"creator"`
	RoyaltyBps uint32    `json:"royalty_bps"`
	Uri        string    `json:"uri"`
	Approved   string    `json:"approved,omitempty"`
	MintedAt   time.Time `json:"minted_at"`
}

// Listing is the wire form of domain.Listing
type Listing struct {
	Id         uint64     `json:"id"`
	Collection string     `json:"collection"`
	AssetId    uint64     `json:"asset_id"`
	Seller     string     `json:"seller"`
	Price      string     `json:"price"`
	Status     string     `json:"status"`
	Buyer      string     `json:"buyer,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	SoldAt     *time.Time `json:"sold_at,omitempty"`
}

// Sale is the wire form of domain.Sale
type Sale struct {
	Id             string    `json:"id"`
	ListingId      uint64    `json:"listing_id"`
	Collection     string    `json:"collection"`
	AssetId        uint64    `json:"asset_id"`
	Seller         string    `json:"seller"`
	Buyer          string    `json:"buyer"`
	Creator        string    `json:"creator"`
	Price          string    `json:"price"`
	Royalty        string    `json:"royalty"`
	PlatformFee    string    `json:"platform_fee"`
	SellerProceeds string    `json:"seller_proceeds"`
	SettledAt      time.Time `json:"settled_at"`
}

// Market is the wire form of domain.Market
type Market struct {
	Address         string     `json:"address"`
	Initialized     bool       `json:"initialized"`
	Administrator   string     `json:"administrator,omitempty"`
	FeeRateBps      uint32     `json:"fee_rate_bps"`
	AccumulatedFees string     `json:"accumulated_fees"`
	InitializedAt   *time.Time `json:"initialized_at,omitempty"`
}

type MintRequest struct {
	Collection string `json:"collection"`
	Uri        string `json:"uri"`
	RoyaltyBps uint32 `json:"royalty_bps"`
}

type MintResponse struct {
	Asset *Asset `json:"asset"`
}

type BurnRequest struct {
	Collection string `json:"collection"`
	AssetId    uint64 `json:"asset_id"`
}

type BurnResponse struct{}

type ApproveRequest struct {
	Collection string `json:"collection"`
	AssetId    uint64 `json:"asset_id"`
	Spender    string `json:"spender"` // Empty clears the approval
}

type ApproveResponse struct{}

type TransferAssetRequest struct {
	Collection string `json:"collection"`
	AssetId    uint64 `json:"asset_id"`
	To         string `json:"to"`
}

type TransferAssetResponse struct{}

type GetAssetRequest struct {
	Collection string `json:"collection"`
	AssetId    uint64 `json:"asset_id"`
}

type GetAssetResponse struct {
	Asset *Asset `json:"asset"`
}

type RoyaltyInfoRequest struct {
	Collection string `json:"collection"`
	AssetId    uint64 `json:"asset_id"`
	SalePrice  string `json:"sale_price"`
}

type RoyaltyInfoResponse struct {
	Creator       string `json:"creator"`
	RoyaltyAmount string `json:"royalty_amount"`
}

type PauseRequest struct {
	Collection string `json:"collection"`
}

type PauseResponse struct {
	Paused bool `json:"paused"`
}

type ListItemRequest struct {
	Collection string `json:"collection"`
	AssetId    uint64 `json:"asset_id"`
	Price      string `json:"price"`
}

type ListItemResponse struct {
	Listing *Listing `json:"listing"`
}

type GetListingRequest struct {
	ListingId uint64 `json:"listing_id"`
}

type GetListingResponse struct {
	Listing *Listing `json:"listing"`
}

type ListListingsRequest struct {
	Status string `json:"status,omitempty"` // ACTIVE, SOLD or empty for both
	Seller string `json:"seller,omitempty"`
	Limit  int32  `json:"limit,omitempty"`
	Offset int32  `json:"offset,omitempty"`
}

type ListListingsResponse struct {
	Listings []*Listing `json:"listings"`
	Total    int32      `json:"total"`
}

type BuyItemRequest struct {
	ListingId uint64 `json:"listing_id"`
	Payment   string `json:"payment"`
}

type BuyItemResponse struct {
	Sale *Sale `json:"sale"`
}

type InitializeRequest struct {
	FeeRateBps    uint32 `json:"fee_rate_bps"`
	Administrator string `json:"administrator"`
}

type InitializeResponse struct {
	Market *Market `json:"market"`
}

type WithdrawRequest struct{}

type WithdrawResponse struct {
	Amount string `json:"amount"`
}

type GetContractBalanceRequest struct{}

type GetContractBalanceResponse struct {
	Balance string `json:"balance"`
}

type GetBalanceRequest struct {
	Account string `json:"account"`
}

type GetBalanceResponse struct {
	Balance string `json:"balance"`
}

type DepositRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type DepositResponse struct {
	Balance string `json:"balance"`
}

type GetMarketSummaryRequest struct{}

type GetMarketSummaryResponse struct {
	Initialized     bool   `json:"initialized"`
	FeeRateBps      uint32 `json:"fee_rate_bps"`
	ActiveListings  int32  `json:"active_listings"`
	SoldListings    int32  `json:"sold_listings"`
	SalesCount      int32  `json:"sales_count"`
	Volume          string `json:"volume"`
	Royalties       string `json:"royalties"`
	PlatformFees    string `json:"platform_fees"`
	AccumulatedFees string `json:"accumulated_fees"`
}
