package recipe

import (
	"context"
	"errors"
	"time"

	"recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Stage 單次生成嘗試的階段
type Stage string

const (
	StageIdle     Stage = "idle"
	StageBuilding Stage = "building"
	StageInvoking Stage = "invoking"
	StageParsing  Stage = "parsing"
	StageReady    Stage = "ready"
	StageFailed   Stage = "failed"
)

// 合法的階段轉換，ready 與 failed 為終點
var transitions = map[Stage][]Stage{
	StageIdle:     {StageBuilding},
	StageBuilding: {StageInvoking, StageFailed},
	StageInvoking: {StageParsing, StageFailed},
	StageParsing:  {StageReady, StageFailed},
}

// Invoker 送出提示詞取回模型原始文字
type Invoker interface {
	ProcessRequest(ctx context.Context, prompt string) (*service.Response, error)
}

// ImageLinker 替食譜加上圖片連結
type ImageLinker interface {
	Link(title string, ingredients []string, index int) (imageURL, fallbackURL string)
}

// Result 生成結果
type Result struct {
	Mode     Mode     `json:"mode"`
	Recipes  []Recipe `json:"recipes"`
	Model    string   `json:"model,omitempty"`
	CacheHit bool     `json:"cache_hit"`
}

// Attempt 一次生成嘗試的狀態紀錄
type Attempt struct {
	Mode    Mode
	Stage   Stage
	History []Stage
	Result  *Result
	Err     error
}

func newAttempt(mode Mode) *Attempt {
	return &Attempt{Mode: mode, Stage: StageIdle, History: []Stage{StageIdle}}
}

// advance 轉換到下一階段，不合法的轉換會被忽略並記錄
func (a *Attempt) advance(ctx context.Context, to Stage) {
	for _, allowed := range transitions[a.Stage] {
		if allowed == to {
			common.LogDebug("生成階段轉換",
				zap.String("mode", string(a.Mode)),
				zap.String("from", string(a.Stage)),
				zap.String("to", string(to)),
				zap.String("request_id", common.RequestIDFromContext(ctx)),
			)
			a.Stage = to
			a.History = append(a.History, to)
			metrics.GenerationStages.WithLabelValues(string(a.Mode), string(to)).Inc()
			return
		}
	}
	common.LogWarn("不合法的生成階段轉換",
		zap.String("mode", string(a.Mode)),
		zap.String("from", string(a.Stage)),
		zap.String("to", string(to)),
	)
}

func (a *Attempt) fail(ctx context.Context, err error) {
	a.Err = err
	a.advance(ctx, StageFailed)
}

// Generator 串起 Prompt Builder → Model Invocation → Response Parser
type Generator struct {
	invoker Invoker
	images  ImageLinker
}

// NewGenerator 創建生成器，images 可為 nil
func NewGenerator(invoker Invoker, images ImageLinker) *Generator {
	return &Generator{invoker: invoker, images: images}
}

// FromIngredients 依食材生成食譜
func (g *Generator) FromIngredients(ctx context.Context, req GenerationRequest) (*Result, error) {
	attempt := g.Run(ctx, ModeIngredients, func() (string, error) {
		return BuildIngredientPrompt(req)
	})
	return attempt.Result, attempt.Err
}

// FromFavorites 依收藏標題推薦新食譜
func (g *Generator) FromFavorites(ctx context.Context, favorites []string) (*Result, error) {
	attempt := g.Run(ctx, ModeFavorites, func() (string, error) {
		return BuildFavoritesPrompt(favorites)
	})
	return attempt.Result, attempt.Err
}

// Run 執行一次完整的生成嘗試，不重試
func (g *Generator) Run(ctx context.Context, mode Mode, build func() (string, error)) *Attempt {
	start := time.Now()
	attempt := newAttempt(mode)
	requestID := common.RequestIDFromContext(ctx)

	defer func() {
		metrics.GenerationDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
		metrics.Generations.WithLabelValues(string(mode), outcome(attempt)).Inc()
	}()

	attempt.advance(ctx, StageBuilding)
	prompt, err := build()
	if err != nil {
		common.LogDebug("生成請求驗證失敗",
			zap.String("mode", string(mode)),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		attempt.fail(ctx, err)
		return attempt
	}

	attempt.advance(ctx, StageInvoking)
	resp, err := g.invoker.ProcessRequest(ctx, prompt)
	if err != nil {
		if !errors.Is(err, common.ErrGenerationFailed) {
			err = common.NewGenerationFailed(err)
		}
		common.LogError("食譜生成失敗",
			zap.String("mode", string(mode)),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		attempt.fail(ctx, err)
		return attempt
	}

	attempt.advance(ctx, StageParsing)
	recipes, err := ParseRecipes(resp.Content)
	if err != nil {
		common.LogError("模型回應無法解析",
			zap.String("mode", string(mode)),
			zap.Error(err),
			zap.Int("response_length", len(resp.Content)),
			zap.String("request_id", requestID),
		)
		attempt.fail(ctx, err)
		return attempt
	}

	if g.images != nil {
		for i := range recipes {
			recipes[i].ImageURL, recipes[i].FallbackImageURL = g.images.Link(recipes[i].Title, recipes[i].Ingredients, i)
		}
	}

	attempt.Result = &Result{
		Mode:     mode,
		Recipes:  recipes,
		Model:    resp.Model,
		CacheHit: resp.CacheHit,
	}
	attempt.advance(ctx, StageReady)
	metrics.RecipesReturned.WithLabelValues(string(mode)).Add(float64(len(recipes)))

	common.LogInfo("食譜生成完成",
		zap.String("mode", string(mode)),
		zap.Int("recipes", len(recipes)),
		zap.Bool("cache_hit", resp.CacheHit),
		zap.Duration("耗時", time.Since(start)),
		zap.String("request_id", requestID),
	)

	return attempt
}

func outcome(a *Attempt) string {
	if a.Stage == StageReady {
		return "ready"
	}
	switch ce := common.AsCustomError(a.Err); ce.Code {
	case common.ErrCodeValidation:
		return "validation_error"
	case common.ErrCodeMalformedResponse:
		return "malformed_response"
	case common.ErrCodeGenerationFailed:
		return "generation_failed"
	default:
		return "error"
	}
}
