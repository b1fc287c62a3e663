package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/markdave123-py/Uncouple/internal/config"
	"github.com/markdave123-py/Uncouple/internal/core"
	db "github.com/markdave123-py/Uncouple/internal/core/database"
	"github.com/markdave123-py/Uncouple/internal/core/forms"
	"github.com/markdave123-py/Uncouple/internal/core/ingestion_engine"
	"github.com/markdave123-py/Uncouple/internal/core/llm"
	objectclient "github.com/markdave123-py/Uncouple/internal/core/object-client"
	"github.com/markdave123-py/Uncouple/internal/core/payment"
	"github.com/markdave123-py/Uncouple/internal/services"
)

type App struct {
	Config       *config.Config
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	DocProcessor ingestion_engine.Ingestor
	Services     *Services
	Server       *Server

	closers []io.Closer
}

// NewApp wires every collaborator from cfg. Object storage, the model
// provider and the payment gateway are optional; the features that need
// them report 503 when they are missing.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDbClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")
	a := &App{Config: cfg, DBClient: dbClient}

	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" {
		s3, err := objectclient.NewS3Client(appCtx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.ObjectClient = s3
		log.Println("Object client initialized and ready.")
	} else {
		log.Println("WARN: AWS credentials not set, object storage disabled")
	}

	gen, err := NewGenerator(cfg, a.ObjectClient)
	if err != nil {
		a.Close()
		return nil, err
	}

	chatLLM, embedder := a.modelProviders(appCtx, cfg)

	var gateway core.PaymentGateway
	if cfg.PaymentConfigured() {
		sg, err := payment.NewStripeGateway(cfg.StripeSecretKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("couldn't initialize payments, %w", err)
		}
		gateway = sg
	} else {
		log.Println("WARN: STRIPE_SECRET_KEY not set, payments disabled")
	}

	var ingestor ingestion_engine.Ingestor
	if embedder != nil {
		documentExtractor := ingestion_engine.NewDocconvExtractor(false, 0)
		ingestor = ingestion_engine.NewKnowledgeIngestor(dbClient, a.ObjectClient, embedder, documentExtractor, ingestion_engine.DefaultIngestConfig())
		a.DocProcessor = ingestor
	}

	a.Services = &Services{
		Users:       services.NewUserService(dbClient, cfg.AdminEmails...),
		Profiles:    services.NewProfileService(dbClient),
		Chat:        services.NewChatService(dbClient, chatLLM, embedder, cfg.ChatMaxMessages),
		Documents:   services.NewDocumentService(dbClient, gen, cfg.RequirePayment),
		Payments:    services.NewPaymentService(dbClient, gateway, cfg.ProductPrice, cfg.ProductCurrency, cfg.StripePublishableKey),
		Eligibility: services.NewEligibilityService(),
		Knowledge:   services.NewKnowledgeService(dbClient, a.ObjectClient, cfg.BucketName, cfg.KnowledgeDir, ingestor),
	}
	a.Server = NewServer(cfg, a.Services)
	return a, nil
}

// StartWorkers launches the knowledge ingestion workers.
func (a *App) StartWorkers(ctx context.Context) {
	if a.DocProcessor == nil {
		return
	}
	a.DocProcessor.Start(ctx, a.Config.IngestWorkers)
}

// NewGenerator builds the form generator for cfg. obj may be nil unless
// TEMPLATE_SOURCE is s3.
func NewGenerator(cfg *config.Config, obj core.ObjectClient) (*forms.Generator, error) {
	templates, err := templateSource(cfg, obj)
	if err != nil {
		return nil, err
	}
	return forms.NewGenerator(templates,
		forms.WithConverter(forms.NewSofficeConverter(cfg.SofficePath)),
		forms.WithUnmappedWarnings(cfg.IsDevelopment()),
	), nil
}

func templateSource(cfg *config.Config, obj core.ObjectClient) (forms.TemplateSource, error) {
	switch cfg.TemplateSource {
	case "", "builtin":
		return forms.BuiltinSource{}, nil
	case "dir":
		return forms.ChainSource{forms.DirSource{Dir: cfg.TemplateDir}, forms.BuiltinSource{}}, nil
	case "s3":
		if obj == nil {
			return nil, fmt.Errorf("TEMPLATE_SOURCE=s3 needs AWS credentials: %w", core.ErrNotConfigured)
		}
		src := forms.ObjectSource{Client: obj, Bucket: cfg.BucketName, Prefix: cfg.TemplatePrefix}
		return forms.ChainSource{src, forms.BuiltinSource{}}, nil
	default:
		return nil, fmt.Errorf("unknown TEMPLATE_SOURCE %q", cfg.TemplateSource)
	}
}

// modelProviders returns the chat model and the embedder. Either may be
// nil when its key is missing.
func (a *App) modelProviders(ctx context.Context, cfg *config.Config) (core.LLMProvider, core.EmbeddingProvider) {
	var (
		chat     core.LLMProvider
		embedder core.EmbeddingProvider
	)

	if cfg.AIAPIKey != "" {
		geminiEmbedder, err := llm.NewGeminiEmbedder(ctx, cfg.AIAPIKey, cfg.EmbedModel)
		if err != nil {
			log.Printf("WARN: couldn't initialize the embedder, %v", err)
		} else {
			embedder = geminiEmbedder
			a.closers = append(a.closers, geminiEmbedder)
		}
	}

	switch cfg.LLMProvider {
	case "openai":
		o, err := llm.NewOpenAILLM(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.GenModel)
		if err != nil {
			log.Printf("WARN: couldn't initialize the openai model, %v", err)
			break
		}
		chat = o
	default:
		if cfg.AIAPIKey == "" {
			break
		}
		g, err := llm.NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			log.Printf("WARN: couldn't initialize the gemini model, %v", err)
			break
		}
		chat = g
		a.closers = append(a.closers, g)
	}

	if chat == nil {
		log.Println("WARN: AI key not set, chat disabled")
	}
	return chat, embedder
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
