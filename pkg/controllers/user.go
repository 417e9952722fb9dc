package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"greenmart-io/api/internal"
	"greenmart-io/api/internal/auth"
	"greenmart-io/api/internal/common"
	"greenmart-io/api/pkg/models"
	"greenmart-io/api/pkg/util"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// issueTokens mints the access/refresh token pair every login path shares.
func issueTokens(id primitive.ObjectID, email string, role models.Role) (gin.H, error) {
	token, expiresAt, err := auth.GenerateJWT(id.Hex(), email, role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := auth.GenerateRefreshJWT(id.Hex(), email, role)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"token":        token,
		"expiresAt":    expiresAt,
		"refreshToken": refreshToken,
	}, nil
}

// CreateUser registers a new buyer account.
func CreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		var req models.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		if problems := models.ValidatePasswordStrength(req.Password); len(problems) > 0 {
			util.HandleError(c, http.StatusBadRequest, errors.New("weak password: "+strings.Join(problems, ", ")))
			return
		}

		digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		user := models.User{
			Id:             primitive.NewObjectID(),
			Name:           req.Name,
			Email:          strings.ToLower(req.Email),
			PasswordDigest: string(digest),
			Phone:          req.Phone,
			Thumbnail:      common.DEFAULT_USER_THUMBNAIL,
			Cart:           []models.CartLine{},
			Orders:         []models.Order{},
			CreatedAt:      now,
			ModifiedAt:     now,
		}

		if _, err := common.UserCollection.InsertOne(ctx, user); err != nil {
			if common.IsDuplicateKeyError(err) {
				util.HandleError(c, http.StatusConflict, errors.New("an account with this email already exists"))
				return
			}
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		tokens, err := issueTokens(user.Id, user.Email, models.RoleBuyer)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		tokens["user"] = user

		util.HandleSuccess(c, http.StatusCreated, "Account created successfully", tokens)
	}
}

// HandleUserAuthentication logs a buyer in with email and password.
func HandleUserAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		var req models.UserLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		user, err := common.GetUserByEmail(ctx, strings.ToLower(req.Email))
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(req.Password)); err != nil {
			util.HandleError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
			return
		}

		tokens, err := issueTokens(user.Id, user.Email, models.RoleBuyer)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		user.PasswordDigest = ""
		tokens["user"] = user

		if _, err := auth.SetSession(c, user.Id, user.Email, models.RoleBuyer); err != nil {
			util.LogError("failed to set login session", err)
		}

		util.HandleSuccess(c, http.StatusOK, "success", tokens)
	}
}

// HandleUserGoogleAuthentication signs a buyer in with a Google ID token,
// creating the account on first login.
func HandleUserGoogleAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		var req models.GoogleAuthRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		v := googleAuthIDTokenVerifier.Verifier{}
		googleClientID := util.LoadEnvFor("GOOGLE_CLIENT_ID")
		if err := v.VerifyIDToken(req.IdToken, []string{googleClientID}); err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		claimSet, err := googleAuthIDTokenVerifier.Decode(req.IdToken)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, errors.New("cannot decode token"))
			return
		}

		email := strings.ToLower(claimSet.Email)
		var user models.User
		err = common.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			user = models.User{
				Id:            primitive.NewObjectID(),
				Name:          claimSet.Name,
				Email:         email,
				Thumbnail:     claimSet.Picture,
				Cart:          []models.CartLine{},
				Orders:        []models.Order{},
				EmailVerified: claimSet.EmailVerified,
				CreatedAt:     now,
				ModifiedAt:    now,
			}
			if user.Thumbnail == "" {
				user.Thumbnail = common.DEFAULT_USER_THUMBNAIL
			}
			if _, err := common.UserCollection.InsertOne(ctx, user); err != nil {
				util.HandleError(c, http.StatusInternalServerError, err)
				return
			}
		} else if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		tokens, err := issueTokens(user.Id, user.Email, models.RoleBuyer)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		user.PasswordDigest = ""
		tokens["user"] = user

		if _, err := auth.SetSession(c, user.Id, user.Email, models.RoleBuyer); err != nil {
			util.LogError("failed to set login session", err)
		}

		util.HandleSuccess(c, http.StatusOK, "success", tokens)
	}
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
func RefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload models.RefreshTokenPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&payload); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		claim, err := auth.ValidateRefreshToken(payload.Token)
		if err != nil {
			util.HandleError(c, http.StatusUnauthorized, err)
			return
		}

		token, expiresAt, err := auth.GenerateJWT(claim.Id, claim.Email, claim.Role)
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"token":     token,
			"expiresAt": expiresAt,
		})
	}
}

// Logout blacklists the current access token and drops the session.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := auth.ExtractToken(c)
		if tokenString == "" {
			util.HandleError(c, http.StatusBadRequest, errors.New("request does not contain an access token"))
			return
		}

		if err := auth.InvalidateToken(util.REDIS, tokenString); err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}

		auth.DeleteSession(c)
		util.HandleSuccess(c, http.StatusOK, "Logged out successfully", nil)
	}
}

// CurrentUser returns the authenticated buyer's profile.
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		user.PasswordDigest = ""
		util.HandleSuccess(c, http.StatusOK, "success", user)
	}
}

type updateProfileRequest struct {
	Name    string          `json:"name" validate:"omitempty,min=2"`
	Phone   string          `json:"phone" validate:"omitempty,min=10"`
	Address *models.Address `json:"address"`
}

// UpdateMyProfile patches the buyer's name, phone or address.
func UpdateMyProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), common.REQUEST_TIMEOUT_SECS)
		defer cancel()

		user, err := common.CurrentUser(c, ctx)
		if err != nil {
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}
		if err := common.Validate.Struct(&req); err != nil {
			util.HandleError(c, http.StatusBadRequest, err)
			return
		}

		set := bson.M{"modified_at": time.Now()}
		if req.Name != "" {
			set["name"] = req.Name
		}
		if req.Phone != "" {
			set["phone"] = req.Phone
		}
		if req.Address != nil {
			set["address"] = req.Address
		}

		res, err := common.UserCollection.UpdateOne(ctx, bson.M{"_id": user.Id}, bson.M{"$set": set})
		if err != nil {
			util.HandleError(c, http.StatusInternalServerError, err)
			return
		}
		if res.MatchedCount == 0 {
			util.HandleError(c, http.StatusNotFound, errors.New("user not found"))
			return
		}

		_ = internal.PublishCacheMessage(ctx, internal.CacheInvalidateUser, user.Id.Hex())
		util.HandleSuccess(c, http.StatusOK, "Profile updated successfully", res.ModifiedCount)
	}
}
