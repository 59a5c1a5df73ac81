package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "marketplace.v1.MarketplaceService"

// MarketplaceServer is the server API for MarketplaceService
type MarketplaceServer interface {
	// Registry
	Mint(context.Context, *MintRequest) (*MintResponse, error)
	Burn(context.Context, *BurnRequest) (*BurnResponse, error)
	Approve(context.Context, *ApproveRequest) (*ApproveResponse, error)
	TransferAsset(context.Context, *TransferAssetRequest) (*TransferAssetResponse, error)
	GetAsset(context.Context, *GetAssetRequest) (*GetAssetResponse, error)
	RoyaltyInfo(context.Context, *RoyaltyInfoRequest) (*RoyaltyInfoResponse, error)
	Pause(context.Context, *PauseRequest) (*PauseResponse, error)
	Unpause(context.Context, *PauseRequest) (*PauseResponse, error)

	// Marketplace
	ListItem(context.Context, *ListItemRequest) (*ListItemResponse, error)
	GetListing(context.Context, *GetListingRequest) (*GetListingResponse, error)
	ListListings(context.Context, *ListListingsRequest) (*ListListingsResponse, error)
	BuyItem(context.Context, *BuyItemRequest) (*BuyItemResponse, error)

	// Treasury
	Initialize(context.Context, *InitializeRequest) (*InitializeResponse, error)
	Withdraw(context.Context, *WithdrawRequest) (*WithdrawResponse, error)
	GetContractBalance(context.Context, *GetContractBalanceRequest) (*GetContractBalanceResponse, error)

	// Accounts
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	Deposit(context.Context, *DepositRequest) (*DepositResponse, error)

	// Dashboard
	GetMarketSummary(context.Context, *GetMarketSummaryRequest) (*GetMarketSummaryResponse, error)
}

// PublicMethods need no authorization token
var PublicMethods = []string{
	fullMethod("GetAsset"),
	fullMethod("RoyaltyInfo"),
	fullMethod("GetListing"),
	fullMethod("ListListings"),
	fullMethod("GetContractBalance"),
	fullMethod("GetBalance"),
	fullMethod("GetMarketSummary"),
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary adapts a MarketplaceServer method to a grpc.MethodDesc
func unary[Req, Resp any](name string, call func(MarketplaceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				resp, err := call(srv.(MarketplaceServer), ctx, req.(*Req))
				if err != nil {
					return nil, err
				}
				return resp, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for MarketplaceService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Mint", MarketplaceServer.Mint),
		unary("Burn", MarketplaceServer.Burn),
		unary("Approve", MarketplaceServer.Approve),
		unary("TransferAsset", MarketplaceServer.TransferAsset),
		unary("GetAsset", MarketplaceServer.GetAsset),
		unary("RoyaltyInfo", MarketplaceServer.RoyaltyInfo),
		unary("Pause", MarketplaceServer.Pause),
		unary("Unpause", MarketplaceServer.Unpause),
		unary("ListItem", MarketplaceServer.ListItem),
		unary("GetListing", MarketplaceServer.GetListing),
		unary("ListListings", MarketplaceServer.ListListings),
		unary("BuyItem", MarketplaceServer.BuyItem),
		unary("Initialize", MarketplaceServer.Initialize),
		unary("Withdraw", MarketplaceServer.Withdraw),
		unary("GetContractBalance", MarketplaceServer.GetContractBalance),
		unary("GetBalance", MarketplaceServer.GetBalance),
		unary("Deposit", MarketplaceServer.Deposit),
		unary("GetMarketSummary", MarketplaceServer.GetMarketSummary),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "marketplace/v1/marketplace.proto",
}

// RegisterMarketplaceServer registers srv on s
func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
