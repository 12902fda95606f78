package main

import (
	"context"
	"etfgrid/api"
	"etfgrid/cmd"
	"etfgrid/internal/logger"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

type lambdaHandler struct {
	ginLambda *ginadapter.GinLambda
}

func (m lambdaHandler) Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.FromContext(ctx).Infow("lambda request", "method", req.HTTPMethod, "path", req.Path)
	return m.ginLambda.ProxyWithContext(ctx, req)
}

// State and journal paths should point at a mounted volume (EFS) when
// deployed, since the lambda filesystem is not persistent.
func main() {
	apiHandler, err := cmd.InitializeDependencies(context.Background(), cmd.Options{})
	if err != nil {
		log.Fatal(err)
	}
	handler := lambdaHandler{
		ginLambda: newGinLambda(apiHandler),
	}
	lambda.Start(handler.Handler)
}

func newGinLambda(h *api.ApiHandler) *ginadapter.GinLambda {
	return ginadapter.New(h.InitializeRouterEngine())
}
