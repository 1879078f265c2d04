package main

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/theweboftrust/wot.id/adapters/directory"
	"github.com/theweboftrust/wot.id/adapters/events"
	"github.com/theweboftrust/wot.id/adapters/store"
	"github.com/theweboftrust/wot.id/adapters/tokenizer"
	"github.com/theweboftrust/wot.id/adapters/verifier"
	"github.com/theweboftrust/wot.id/config"
	"github.com/theweboftrust/wot.id/service"
	"github.com/theweboftrust/wot.id/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	signKey, err := cfg.SigningKey()
	if err != nil {
		log.Fatalf("Failed to load session signing key: %v", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)

	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}

	challenges := store.NewRedisChallengeStore(redisClient)
	revocations := store.NewRedisRevocationStore(redisClient)
	resolver := directory.NewHTTPResolver(cfg.IdentityServiceURL, cfg.ResolveTimeout)
	eventPub := events.NewWatermillPublisher(publisher)

	// The identity service handles DID-document-backed signatures; the
	// wallet strategy handles wallet-held did:pkh identities locally.
	didStrategy := service.NewDIDChallengeStrategy(
		challenges,
		verifier.NewHTTPVerifier(cfg.IdentityServiceURL, cfg.VerifyTimeout),
		cfg.VerifyTimeout,
	)
	walletStrategy := service.NewWalletChallengeStrategy(
		challenges,
		verifier.NewEthVerifier(),
		cfg.VerifyTimeout,
	)

	authService := service.NewAuthService(
		resolver,
		challenges,
		tokenizer.NewJWTTokenizer(cfg.SigningKeyID, signKey),
		revocations,
		eventPub,
		didStrategy,
		walletStrategy,
	)

	router := http.SetupRouter(authService)

	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
