package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/researchmate/rag-backend/internal/entity"
	"github.com/researchmate/rag-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// Pipeline stage names used to tag errors with where the flow failed.
const (
	StageReceived   = "received"
	StageRetrieving = "retrieving"
	StageAssembling = "assembling"
	StageGenerating = "generating"
)

// noContextAnswer is returned verbatim when retrieval finds nothing.
const noContextAnswer = "I couldn't find any relevant information in the documents to answer your question."

const previewLength = 200

// QueryUsecase orchestrates a question through retrieval, context assembly
// and answer generation.
type QueryUsecase struct {
	retriever         Retriever
	assembler         ContextAssembler
	conversations     ConversationStore
	generator         GenerationProvider
	validator         *validator.Validator
	generationTimeout time.Duration
	logger            *zap.Logger
}

func NewUsecase(
	retriever Retriever,
	assembler ContextAssembler,
	conversations ConversationStore,
	generator GenerationProvider,
	validator *validator.Validator,
	generationTimeout time.Duration,
	logger *zap.Logger,
) *QueryUsecase {
	return &QueryUsecase{
		retriever:         retriever,
		assembler:         assembler,
		conversations:     conversations,
		generator:         generator,
		validator:         validator,
		generationTimeout: generationTimeout,
		logger:            logger,
	}
}

// Query runs the full pipeline for one question. The conversation turn is
// recorded only after a complete answer exists: a failed generation leaves
// the conversation exactly as it was before the call.
func (uc *QueryUsecase) Query(ctx context.Context, req entity.QueryRequest) (*entity.QueryResponse, error) {
	started := time.Now()

	if err := uc.validator.ValidateQuery(&req); err != nil {
		return nil, entity.NewStageError(StageReceived, err)
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	ctxzap.Info(ctx, "query received",
		zap.String("conversation_id", conversationID),
		zap.Int("max_results", req.MaxResults),
	)

	passages, err := uc.retriever.Retrieve(ctx, req.Question, req.MaxResults)
	if err != nil {
		return nil, entity.NewStageError(StageRetrieving, err)
	}

	if len(passages) == 0 {
		ctxzap.Info(ctx, "no relevant passages found", zap.String("conversation_id", conversationID))
		uc.recordTurn(conversationID, req.Question, noContextAnswer)
		return &entity.QueryResponse{
			Answer:         noContextAnswer,
			Sources:        []entity.SourceDTO{},
			ConversationID: conversationID,
			ProcessingTime: time.Since(started).Seconds(),
		}, nil
	}

	var history []entity.ConversationMessage
	if conv, ok := uc.conversations.Get(conversationID); ok {
		history = conv.Messages
	}
	contextText := uc.assembler.Assemble(passages, history)

	genCtx, cancel := context.WithTimeout(ctx, uc.generationTimeout)
	defer cancel()

	answer, err := uc.generator.Generate(genCtx, req.Question, contextText)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: after %s", entity.ErrGenerationTimeout, uc.generationTimeout)
		}
		return nil, entity.NewStageError(StageGenerating, err)
	}

	uc.recordTurn(conversationID, req.Question, answer)

	ctxzap.Info(ctx, "query answered",
		zap.String("conversation_id", conversationID),
		zap.Int("sources", len(passages)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &entity.QueryResponse{
		Answer:         answer,
		Sources:        toSources(passages),
		ConversationID: conversationID,
		ProcessingTime: time.Since(started).Seconds(),
	}, nil
}

// History returns the stored conversation.
func (uc *QueryUsecase) History(_ context.Context, conversationID string) (*entity.Conversation, error) {
	conv, ok := uc.conversations.Get(conversationID)
	if !ok {
		return nil, entity.ErrConversationNotFound
	}
	return &conv, nil
}

// DeleteConversation removes the stored conversation.
func (uc *QueryUsecase) DeleteConversation(_ context.Context, conversationID string) error {
	if _, ok := uc.conversations.Get(conversationID); !ok {
		return entity.ErrConversationNotFound
	}
	uc.conversations.Delete(conversationID)
	return nil
}

func (uc *QueryUsecase) recordTurn(conversationID, question, answer string) {
	uc.conversations.Append(conversationID, entity.ConversationMessage{
		Role:    entity.RoleUser,
		Content: question,
	})
	uc.conversations.Append(conversationID, entity.ConversationMessage{
		Role:    entity.RoleAssistant,
		Content: answer,
	})
}

func toSources(passages []entity.RetrievedPassage) []entity.SourceDTO {
	sources := make([]entity.SourceDTO, 0, len(passages))
	for _, p := range passages {
		preview := p.Text
		if runes := []rune(preview); len(runes) > previewLength {
			preview = string(runes[:previewLength]) + "..."
		}

		filename := p.Metadata[entity.MetaFilename]
		if filename == "" {
			filename = "Unknown"
		}

		sources = append(sources, entity.SourceDTO{
			Filename:       filename,
			ChunkID:        p.ChunkID,
			RelevanceScore: p.Score,
			ContentPreview: preview,
		})
	}
	return sources
}
