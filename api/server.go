package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/langpoll/langpoll/api/controllers"
	"github.com/langpoll/langpoll/api/transport"
	langevents "github.com/langpoll/langpoll/events"
	"github.com/langpoll/langpoll/logging"
	"github.com/langpoll/langpoll/storage"
	"github.com/langpoll/langpoll/tally"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)
	ctx := context.Background()

	// Create storage
	store, err := buildStore(ctx, s.config)
	if err != nil {
		logging.Log.Errorf("failed to build %q storage backend: %v", s.config.Backend, err)
		panic("failed to build storage backend")
	}

	// Seed the poll options, voting never creates them
	if err := store.EnsureOptions(ctx, s.config.PollConfig.Options); err != nil {
		logging.Log.Errorf("failed to seed poll options: %v", err)
		panic("failed to seed poll options")
	}

	// Optional vote event stream
	var caster langevents.VoteCaster = langevents.NoopCaster{}
	if s.config.EventsConfig.Enabled {
		conn, err := langevents.ConnectAmqp(s.config.EventsConfig.URL)
		if err != nil {
			logging.Log.Errorf("failed to connect to RabbitMQ: %v", err)
			panic("failed to connect to RabbitMQ")
		}
		ch, err := conn.Channel()
		if err != nil {
			logging.Log.Errorf("failed to open RabbitMQ channel: %v", err)
			panic("failed to open RabbitMQ channel")
		}
		caster, err = langevents.NewAmqpVoteCaster(ch, s.config.EventsConfig.Queue)
		if err != nil {
			logging.Log.Errorf("failed to set up vote caster: %v", err)
			panic("failed to set up vote caster")
		}
	}

	service := tally.NewService(store, caster, s.config.AdminKey)

	//Register controllers
	pollController := controllers.NewPollController(service)
	pollController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(service)
	adminController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

func buildStore(ctx context.Context, config *Config) (storage.OptionStore, error) {
	switch config.Backend {
	case "memory":
		return storage.NewMemoryOptionStore(), nil
	case "sqlite":
		return storage.NewSqliteOptionStore(config.SqlitePath)
	case "badger":
		return storage.NewBadgerOptionStore(config.BadgerPath)
	case "redis":
		client, err := storage.ConnectRedis(ctx, config.RedisAddr)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisOptionStore(client), nil
	case "dynamo":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return &storage.DynamoOptionStore{
			Client:       dynamodb.NewFromConfig(cfg),
			OptionsTable: config.DynamoOptionsTable,
			LogTable:     config.DynamoLogTable,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnknownBackend, config.Backend)
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
