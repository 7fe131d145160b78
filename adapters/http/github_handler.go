package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	githubUC "github.com/scolardf/devconnector/internal/application/usecase/github"
)

const headerCache = "X-Cache"

type GithubHandler struct {
	reposUseCase *githubUC.ReposUseCase
}

func NewGithubHandler(uc *githubUC.ReposUseCase) *GithubHandler {
	return &GithubHandler{reposUseCase: uc}
}

// ListRepos relays the upstream listing body as is.
func (h *GithubHandler) ListRepos(c *gin.Context) {
	output, err := h.reposUseCase.Execute(c.Request.Context(), githubUC.ReposInput{Username: c.Param("username")})
	if err != nil {
		_ = c.Error(err)
		return
	}

	if output.Cached {
		c.Header(headerCache, "HIT")
	} else {
		c.Header(headerCache, "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", output.Body)
}
