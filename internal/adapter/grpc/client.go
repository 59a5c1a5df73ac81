package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client is the MarketplaceService client. Every call uses the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Mint(ctx context.Context, in *MintRequest, opts ...grpc.CallOption) (*MintResponse, error) {
	return invoke[MintResponse](ctx, c.cc, "Mint", in, opts...)
}

func (c *Client) Burn(ctx context.Context, in *BurnRequest, opts ...grpc.CallOption) (*BurnResponse, error) {
	return invoke[BurnResponse](ctx, c.cc, "Burn", in, opts...)
}

func (c *Client) Approve(ctx context.Context, in *ApproveRequest, opts ...grpc.CallOption) (*ApproveResponse, error) {
	return invoke[ApproveResponse](ctx, c.cc, "Approve", in, opts...)
}

func (c *Client) TransferAsset(ctx context.Context, in *TransferAssetRequest, opts ...grpc.CallOption) (*TransferAssetResponse, error) {
	return invoke[TransferAssetResponse](ctx, c.cc, "TransferAsset", in, opts...)
}

func (c *Client) GetAsset(ctx context.Context, in *GetAssetRequest, opts ...grpc.CallOption) (*GetAssetResponse, error) {
	return invoke[GetAssetResponse](ctx, c.cc, "GetAsset", in, opts...)
}

func (c *Client) RoyaltyInfo(ctx context.Context, in *RoyaltyInfoRequest, opts ...grpc.CallOption) (*RoyaltyInfoResponse, error) {
	return invoke[RoyaltyInfoResponse](ctx, c.cc, "RoyaltyInfo", in, opts...)
}

func (c *Client) Pause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*PauseResponse, error) {
	return invoke[PauseResponse](ctx, c.cc, "Pause", in, opts...)
}

func (c *Client) Unpause(ctx context.Context, in *PauseRequest, opts ...grpc.CallOption) (*PauseResponse, error) {
	return invoke[PauseResponse](ctx, c.cc, "Unpause", in, opts...)
}

func (c *Client) ListItem(ctx context.Context, in *ListItemRequest, opts ...grpc.CallOption) (*ListItemResponse, error) {
	return invoke[ListItemResponse](ctx, c.cc, "ListItem", in, opts...)
}

func (c *Client) GetListing(ctx context.Context, in *GetListingRequest, opts ...grpc.CallOption) (*GetListingResponse, error) {
	return invoke[GetListingResponse](ctx, c.cc, "GetListing", in, opts...)
}

func (c *Client) ListListings(ctx context.Context, in *ListListingsRequest, opts ...grpc.CallOption) (*ListListingsResponse, error) {
	return invoke[ListListingsResponse](ctx, c.cc, "ListListings", in, opts...)
}

func (c *Client) BuyItem(ctx context.Context, in *BuyItemRequest, opts ...grpc.CallOption) (*BuyItemResponse, error) {
	return invoke[BuyItemResponse](ctx, c.cc, "BuyItem", in, opts...)
}

func (c *Client) Initialize(ctx context.Context, in *InitializeRequest, opts ...grpc.CallOption) (*InitializeResponse, error) {
	return invoke[InitializeResponse](ctx, c.cc, "Initialize", in, opts...)
}

func (c *Client) Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*WithdrawResponse, error) {
	return invoke[WithdrawResponse](ctx, c.cc, "Withdraw", in, opts...)
}

func (c *Client) GetContractBalance(ctx context.Context, in *GetContractBalanceRequest, opts ...grpc.CallOption) (*GetContractBalanceResponse, error) {
	return invoke[GetContractBalanceResponse](ctx, c.cc, "GetContractBalance", in, opts...)
}

func (c *Client) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	return invoke[GetBalanceResponse](ctx, c.cc, "GetBalance", in, opts...)
}

func (c *Client) Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*DepositResponse, error) {
	return invoke[DepositResponse](ctx, c.cc, "Deposit", in, opts...)
}

func (c *Client) GetMarketSummary(ctx context.Context, in *GetMarketSummaryRequest, opts ...grpc.CallOption) (*GetMarketSummaryResponse, error) {
	return invoke[GetMarketSummaryResponse](ctx, c.cc, "GetMarketSummary", in, opts...)
}
