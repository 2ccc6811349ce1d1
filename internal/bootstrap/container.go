package bootstrap

import (
	"log"

	"whisperlink-be/internal/config"
	"whisperlink-be/internal/controller"
	"whisperlink-be/internal/handler"
	"whisperlink-be/internal/pkg/logger"
	"whisperlink-be/internal/repository/archive"
	"whisperlink-be/internal/repository/contract"
	"whisperlink-be/internal/repository/memory"
	"whisperlink-be/internal/service"
	"whisperlink-be/internal/store"
	"whisperlink-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	LinkController         controller.ILinkController
	ConversationController controller.IConversationController

	// Background Services (Exposed for main.go to run)
	SweeperService  service.ISweeperService
	ArchiverService service.IArchiverService

	// WebSockets & Relay
	RelayHandler *handler.RelayHandler
	WebSocketHub *websocket.Hub

	// Archive backend, exposed so main.go can close it on exit.
	Archive contract.MessageArchive
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	entityStore := store.NewStore(store.TTLPolicy{
		LinkTTL:                cfg.Relay.LinkTTL,
		MessageTTL:             cfg.Relay.MessageTTL,
		EmptyConversationGrace: cfg.Relay.EmptyConversationGrace,
	}, cfg.Relay.MaxMessageLength, nil)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize In-Memory Token Storage
	tokenRepo := memory.NewTokenRepository(cfg.Relay.LinkTTL)

	// Archive backend, disabled by default
	var messageArchive contract.MessageArchive
	if cfg.Archive.Enabled {
		badgerArchive, err := archive.NewBadgerArchive(cfg.Archive.Path, cfg.Relay.MessageTTL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to open message archive: %v. Archiving disabled", err)
			messageArchive = archive.NewNoopArchive()
		} else {
			messageArchive = badgerArchive
		}
	} else {
		messageArchive = archive.NewNoopArchive()
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/relay.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Archive.Topic, pubSub)
	archiverService := service.NewArchiverService(
		pubSub,
		cfg.Archive.Topic,
		messageArchive,
		sysLogger,
	)

	linkService := service.NewLinkService(entityStore, tokenRepo, sysLogger)
	relayService := service.NewRelayService(
		entityStore,
		wsHub,
		tokenRepo,
		publisherService,
		wsLogger,
	)
	sweeperService := service.NewSweeperService(
		entityStore,
		wsHub,
		messageArchive,
		cfg.Relay.SweepInterval,
		sysLogger,
	)

	// Handler
	relayHandler := handler.NewRelayHandler(wsHub, relayService, wsLogger)

	// 4. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		RelayHandler: relayHandler,
		WebSocketHub: wsHub,

		LinkController:         controller.NewLinkController(linkService),
		ConversationController: controller.NewConversationController(linkService),

		SweeperService:  sweeperService,
		ArchiverService: archiverService,
		Archive:         messageArchive,
	}
}
