package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"scanapi/internal/analysis"
)

// now is the clock used for envelope timestamps.
var now = time.Now

// ProcessScan runs the analysis function on a stored file.
//
// Success answers 200 with every top-level key of the model's reply plus filePath, success
// and timestamp; those three are set last and win over same-named keys from the model.
// Any failure, a malformed body included, answers 500 {error, success:false, timestamp}.
//
// @Summary  Analyze a stored scan file
// @Tags     analysis
// @Accept   json
// @Produce  json
// @Param    request  body      analysis.Request  true  "file to analyze"
// @Success  200      {object}  map[string]any
// @Failure  500      {object}  map[string]any
// @Router   /process-scan [post]
func ProcessScan(an analysis.Analyzer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req analysis.Request
		if body := bytes.TrimSpace(c.Body()); len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return writeFailure(c, "invalid request body: "+err.Error())
			}
		}

		res, err := an.Analyze(c.UserContext(), req)
		if err != nil {
			return writeFailure(c, err.Error())
		}

		out := make(fiber.Map, len(res.Fields)+3)
		for k, v := range res.Fields {
			out[k] = v
		}
		out["filePath"] = req.FilePath
		out["success"] = true
		out["timestamp"] = analysis.FormatTimestamp(now())
		return c.Status(fiber.StatusOK).JSON(out)
	}
}

// PreflightProcessScan answers plain OPTIONS requests; CORS preflights are answered by the
// cors middleware before reaching it.
func PreflightProcessScan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

func writeFailure(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":     msg,
		"success":   false,
		"timestamp": analysis.FormatTimestamp(now()),
	})
}
