// openai_to.go - Konvertierungsfunktionen von API-Format zu OpenAI-Format
//
// Enthaelt:
// - ToUsage: Token-Verbrauch konvertieren
// - ToChatCompletion, ToChunk, ToUsageChunk: Chat-Antworten konvertieren
// - ToModel, ToListCompletion: Model-Listen konvertieren
//
// Verwandte Dateien:
// - openai_types.go: Typdefinitionen
// - openai_from.go: Konvertierung OpenAI -> API Format
package openai

import (
	"time"

	"github.com/smolchat/smolchat/api"
)

const systemFingerprint = "fp_smolchat"

// ToUsage konvertiert eine api.ChatResponse zu Usage
func ToUsage(r api.ChatResponse) Usage {
	return Usage{
		PromptTokens:     r.PromptEvalCount,
		CompletionTokens: r.EvalCount,
		TotalTokens:      r.PromptEvalCount + r.EvalCount,
	}
}

func finishReason(r api.ChatResponse) *string {
	if !r.Done || r.DoneReason == "" {
		return nil
	}
	reason := r.DoneReason
	return &reason
}

func header(id, object string, created time.Time, model string) Header {
	return Header{
		ID:                id,
		Object:            object,
		Created:           created.Unix(),
		Model:             model,
		SystemFingerprint: systemFingerprint,
	}
}

// ToChatCompletion konvertiert eine api.ChatResponse zu ChatCompletion
func ToChatCompletion(id string, r api.ChatResponse) ChatCompletion {
	return ChatCompletion{
		Header: header(id, "chat.completion", r.CreatedAt, r.Model),
		Choices: []Choice{{
			Index:        0,
			Message:      Message{Role: string(r.Message.Role), Content: r.Message.Content},
			FinishReason: finishReason(r),
		}},
		Usage: ToUsage(r),
	}
}

// ToChunk konvertiert eine api.ChatResponse zu ChatCompletionChunk
func ToChunk(id string, r api.ChatResponse) ChatCompletionChunk {
	return ChatCompletionChunk{
		Header: header(id, "chat.completion.chunk", time.Now(), r.Model),
		Choices: []ChunkChoice{{
			Index:        0,
			Delta:        Message{Role: string(api.RoleAssistant), Content: r.Message.Content},
			FinishReason: finishReason(r),
		}},
	}
}

// ToUsageChunk erstellt den abschliessenden Chunk mit Usage und ohne Choices
func ToUsageChunk(id string, r api.ChatResponse) ChatCompletionChunk {
	u := ToUsage(r)
	return ChatCompletionChunk{
		Header:  header(id, "chat.completion.chunk", time.Now(), r.Model),
		Choices: []ChunkChoice{},
		Usage:   &u,
	}
}

// ToModel erstellt einen Model-Eintrag
func ToModel(name string, created time.Time) Model {
	return Model{
		ID:      name,
		Object:  "model",
		Created: created.Unix(),
		OwnedBy: "smolchat",
	}
}

// ToListCompletion erstellt die Antwort fuer /v1/models
func ToListCompletion(models ...Model) ListCompletion {
	if models == nil {
		models = []Model{}
	}
	return ListCompletion{
		Object: "list",
		Data:   models,
	}
}
