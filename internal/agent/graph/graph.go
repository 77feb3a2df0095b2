package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/peoplebot-poc/server/internal/agent/graph/conversations"
	"github.com/peoplebot-poc/server/internal/agent/graph/nodes"
	"github.com/peoplebot-poc/server/internal/agent/graph/observers"
	"github.com/peoplebot-poc/server/internal/agent/model"
	"github.com/peoplebot-poc/server/internal/people"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// Runner executes the compiled answer graph for one chat query.
type Runner interface {
	Invoke(ctx context.Context, in *model.ChatQuery) (*model.ChatResponse, error)
}

// Config holds everything needed to compose the full answer graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat
// model, the person finder and the messages manager.
type Config struct {
	AnswerModel      model.AnswerModelConfig
	People           model.PeopleConfig
	Conversation     model.ConversationConfig
	Source           nodes.PeopleSource
	ConversationRepo model.ConversationRepository // nil disables history
}

// GraphConfig holds all dependencies needed to build the graph.
type GraphConfig struct {
	Generator       nodes.Generator
	ModelName       string
	Source          nodes.PeopleSource
	Finder          *people.Finder
	DefaultLocale   string
	MessagesManager *conversations.MessagesManager
}

// GraphBuilder handles the construction of the answer graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*model.ChatQuery, *model.ChatResponse]
}

type graphRunner struct {
	runnable compose.Runnable[*model.ChatQuery, *model.ChatResponse]
}

func (r *graphRunner) Invoke(ctx context.Context, in *model.ChatQuery) (*model.ChatResponse, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("graph produced no response")
	}
	return out, nil
}

// BuildAnswerGraph wires the chat model, finder and messages manager
// together, builds the graph, and returns a Runner.
func BuildAnswerGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("people source is nil")
	}

	am, err := nodes.NewAnswerModel(ctx, cfg.AnswerModel)
	if err != nil {
		return nil, err
	}

	finder := people.NewFinder(people.PhoneNormalizer{
		CountryCode: cfg.People.PhoneCountryCode,
		TrunkPrefix: cfg.People.PhoneTrunkPrefix,
	}, cfg.People.NameMatchThreshold)

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation.MaxTurns)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Generator:       am.Model,
		ModelName:       am.Name,
		Source:          cfg.Source,
		Finder:          finder,
		DefaultLocale:   cfg.People.DefaultLocale,
		MessagesManager: mm,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Answer graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled answer graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[*model.ChatQuery, *model.ChatResponse], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Generator == nil {
		return nil, fmt.Errorf("generator is not initialized")
	}
	if config.Source == nil || config.Finder == nil {
		return nil, fmt.Errorf("people source/finder is nil")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[*model.ChatQuery, *model.ChatResponse](
			compose.WithGenLocalState(func(ctx context.Context) *model.PipelineState {
				return &model.PipelineState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeResolver,
		nodes.NewResolverNode(b.config.Source, b.config.Finder, b.config.DefaultLocale),
		compose.WithStatePreHandler(nodes.NewResolverPreHandler()),
		compose.WithStatePostHandler(nodes.NewResolverPostHandler(b.config.MessagesManager)),
	)

	b.graph.AddLambdaNode(nodes.NodeNotFound,
		nodes.NewNotFoundNode(),
	)

	b.graph.AddLambdaNode(nodes.NodePromptAssembler,
		nodes.NewPromptAssemblerNode(),
	)

	b.graph.AddLambdaNode(nodes.NodeGenerator,
		nodes.NewGeneratorNode(b.config.Generator),
		compose.WithStatePostHandler(nodes.NewGeneratorPostHandler(b.config.ModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeReconciler,
		nodes.NewReconcilerNode(b.config.MessagesManager),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeResolver},
		{nodes.NodeNotFound, compose.END},
		{nodes.NodePromptAssembler, nodes.NodeGenerator},
		{nodes.NodeGenerator, nodes.NodeReconciler},
		{nodes.NodeReconciler, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the not-found short circuit after resolution
func (b *GraphBuilder) addBranches() error {
	notFoundBranch := compose.NewGraphBranch(
		nodes.NewNotFoundCondition(),
		map[string]bool{
			nodes.NodeNotFound:        true,
			nodes.NodePromptAssembler: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeResolver, notFoundBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding not-found branch")
		return fmt.Errorf("error adding not-found branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.ChatQuery, *model.ChatResponse], error) {
	// The flow is linear with one branch; a small step cap still guards
	// against wiring mistakes.
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
