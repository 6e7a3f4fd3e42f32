package controllers

import (
	"net/http"

	"github.com/Kariqs/puffvibe-api/middlewares"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/gin-gonic/gin"
)

func (h *Handlers) Register(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	user, token, err := h.Auth.Register(ctx.Request.Context(), signUpData)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"data":    user,
	})
}

func (h *Handlers) Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		h.invalidBody(ctx, err)
		return
	}

	user, token, err := h.Auth.Login(ctx.Request.Context(), loginData)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"data":    user,
	})
}

func (h *Handlers) Me(ctx *gin.Context) {
	principal, _ := middlewares.CurrentUser(ctx)
	user, err := h.Auth.Me(ctx.Request.Context(), principal.UserID)
	if err != nil {
		h.respondWithError(ctx, err)
		return
	}
	sendData(ctx, http.StatusOK, user)
}
