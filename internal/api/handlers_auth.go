package api

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/ekklesia/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input credentialsInput
	if err := parseBody(c, &input); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := handler.auth.Register(c.UserContext(), services.RegisterInput{
		Username: input.Username,
		Password: input.Password,
		FullName: input.FullName,
		Role:     input.Role,
	}, handler.now())
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("user registered", "user_id", result.User.ID, "role", result.User.Role)
	return c.Status(fiber.StatusCreated).JSON(newAuthView(result))
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input credentialsInput
	if err := parseBody(c, &input); err != nil {
		return badRequest(c, err.Error())
	}

	now := handler.now()
	limiterKey := loginLimiterKey(c, input.Username)
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginAttemptLimit, loginAttemptWindow) {
		wait := handler.loginLimiter.retryAfter(limiterKey, now, loginAttemptWindow)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(wait.Seconds())+1))
		return apiError(c, fiber.StatusTooManyRequests, kindRateLimited, "too many login attempts, try again later")
	}

	result, err := handler.auth.Login(c.UserContext(), input.Username, input.Password, now)
	if err != nil {
		if services.ErrorKind(err) == services.KindUnauthenticated {
			handler.loginLimiter.addFailure(limiterKey, now, loginAttemptWindow)
		}
		return respondError(c, err)
	}

	handler.loginLimiter.reset(limiterKey)
	return c.JSON(newAuthView(result))
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, err := handler.auth.Me(c.UserContext(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newUserView(user))
}
