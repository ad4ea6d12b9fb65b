package endpoint

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/torarnehave1/slowyou.io/middleware"
	"github.com/torarnehave1/slowyou.io/model"
)

func TestResendVerificationEmail_ReusesStoredToken(t *testing.T) {
	r, db := setupEndpointTest(t)
	rec := installMailRecorder(t)
	seedToken(t, db, "feedfacefeedfacefeedfacefeedfacefeedface", "a@b.com", "subscriber")

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/resend-verification-email",
		requestPath:  "/resend-verification-email?email=a@b.com",
		handler:      ResendVerificationEmail,
		middlewares:  []gin.HandlerFunc{middleware.APITokenAuth()},
		headers:      bearerHeader(testAPIToken),
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Verification email resent successfully.", response["message"])
	assert.Equal(t, testDefaultSender, response["sentFrom"])

	// The stored token goes out again; no new row is minted.
	assert.Len(t, rec.Sent, 1)
	assert.Contains(t, rec.Sent[0].Msg.HTML, "token=feedfacefeedfacefeedfacefeedfacefeedface")
	assert.Equal(t, "Confirm your subscription", rec.Sent[0].Msg.Subject)
	assert.Equal(t, int64(1), countTokenRows(t, db))
}

func TestResendVerificationEmail_PicksMostRecentToken(t *testing.T) {
	r, db := setupEndpointTest(t)
	rec := installMailRecorder(t)

	older := model.VerificationToken{Token: "1111111111111111111111111111111111111111", Email: "a@b.com", Role: "user"}
	older.CreatedAt = time.Now().Add(-time.Hour)
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("failed to seed older row: %v", err)
	}
	seedToken(t, db, "2222222222222222222222222222222222222222", "a@b.com", "user")

	w, _, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/resend-verification-email",
		requestPath:  "/resend-verification-email?email=a@b.com",
		handler:      ResendVerificationEmail,
		middlewares:  []gin.HandlerFunc{middleware.APITokenAuth()},
		headers:      bearerHeader(testAPIToken),
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, rec.Sent, 1)
	assert.Contains(t, rec.Sent[0].Msg.HTML, "token=2222222222222222222222222222222222222222")
}

func TestResendVerificationEmail_NoStoredToken(t *testing.T) {
	r, _ := setupEndpointTest(t)
	rec := installMailRecorder(t)

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/resend-verification-email",
		requestPath:  "/resend-verification-email?email=missing@b.com",
		handler:      ResendVerificationEmail,
		middlewares:  []gin.HandlerFunc{middleware.APITokenAuth()},
		headers:      bearerHeader(testAPIToken),
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No verification token found for this email.", response["msg"])
	assert.Empty(t, rec.Sent)
}

func TestResendVerificationEmail_MissingEmail(t *testing.T) {
	r, _ := setupEndpointTest(t)

	w, response, err := doRequestWithHandler(r, requestSpec{
		method:       http.MethodPost,
		registerPath: "/resend-verification-email",
		requestPath:  "/resend-verification-email",
		handler:      ResendVerificationEmail,
		middlewares:  []gin.HandlerFunc{middleware.APITokenAuth()},
		headers:      bearerHeader(testAPIToken),
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is required.", response["msg"])
}
