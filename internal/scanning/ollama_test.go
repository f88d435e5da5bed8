package scanning

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Ollama", func() {
	var (
		ollamaServer *ghttp.Server
		scanner      *Ollama
		imagePath    string
		text         string
		err          error
	)

	BeforeEach(func() {
		ollamaServer = ghttp.NewServer()
		var newErr error
		scanner, newErr = NewOllama(ollamaServer.URL(), "qwen2-vl")
		Expect(newErr).NotTo(HaveOccurred())
		imagePath = writeFile(GinkgoT().TempDir(), "card.png", encodePNG())
	})

	AfterEach(func() {
		ollamaServer.Close()
	})

	JustBeforeEach(func() {
		text, err = scanner.ExtractText(context.Background(), imagePath, "eng")
	})

	When("the model answers", func() {
		BeforeEach(func() {
			ollamaServer.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
				ghttp.VerifyContentType("application/json"),
				func(w http.ResponseWriter, r *http.Request) {
					var req ollamaChatRequest
					Expect(decodeJSON(r, &req)).To(Succeed())
					Expect(req.Model).To(Equal("qwen2-vl"))
					Expect(req.Stream).To(BeFalse())
					Expect(req.Messages).To(HaveLen(2))
					Expect(req.Messages[1].Images).To(Equal([]string{base64.StdEncoding.EncodeToString(encodePNG())}))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
					Message: ollamaMessage{Role: "assistant", Content: "```\nWaltz\nTango\n```"},
					Done:    true,
				}),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the cleaned transcript", func() {
			Expect(text).To(Equal("Waltz\nTango"))
		})
	})

	When("the model finds no text", func() {
		BeforeEach(func() {
			ollamaServer.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, ollamaChatResponse{
				Message: ollamaMessage{Role: "assistant", Content: noTextMarker},
				Done:    true,
			}))
		})

		It("returns an empty string", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			ollamaServer.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "model not found"))
		})

		It("returns the error with the status", func() {
			Expect(err).To(MatchError(ContainSubstring("status 500")))
			Expect(err).To(MatchError(ContainSubstring("model not found")))
		})
	})

	When("the API returns invalid JSON", func() {
		BeforeEach(func() {
			ollamaServer.AppendHandlers(ghttp.RespondWith(http.StatusOK, "not json"))
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("decoding response")))
		})
	})
})

var _ = Describe("NewOllama", func() {
	It("applies defaults", func() {
		scanner, err := NewOllama("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(scanner.baseURL).To(Equal("http://localhost:11434"))
		Expect(scanner.model).To(Equal("llava"))
	})
})

var _ = Describe("NewGemini", func() {
	It("requires an API key", func() {
		_, err := NewGemini("", "")
		Expect(err).To(MatchError(ContainSubstring("api key is required")))
	})
})

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
