package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/psych"
	"github.com/rustyeddy/tradejournal/risk"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type createAccountRequest struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Type           string          `json:"type"`
}

type switchAccountRequest struct {
	AccountID string `json:"accountId"`
}

type lotsResponse struct {
	risk.LotResult
	Inputs      risk.LotInputs   `json:"inputs"`
	Lots        string           `json:"lots"`
	RoundedLots float64          `json:"roundedLots"`
	ActualRisk  float64          `json:"actualRisk"`
	Violations  []risk.Violation `json:"violations"`
}

type analyzeRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) listAccounts(c *gin.Context) {
	st := storeFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"accounts":        st.Accounts(),
		"activeAccountId": st.ActiveAccountID(),
	})
}

func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid account payload")
		return
	}
	cat := journal.Personal
	if req.Type != "" {
		var err error
		if cat, err = journal.ParseCategory(req.Type); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	acct, err := storeFrom(c).AddAccount(c.Request.Context(), strings.TrimSpace(req.Name), req.InitialBalance, cat)
	if err != nil {
		if acct.ID == "" {
			s.fail(c, err)
			return
		}
		s.log.Warn("account created without saving selection", zap.String("account_id", acct.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, acct)
}

func (s *Server) deleteAccount(c *gin.Context) {
	if err := storeFrom(c).DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) switchAccount(c *gin.Context) {
	var req switchAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AccountID == "" {
		badRequest(c, "accountId is required")
		return
	}
	st := storeFrom(c)
	if err := st.SwitchAccount(c.Request.Context(), req.AccountID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeAccountId": st.ActiveAccountID()})
}

func (s *Server) listTrades(c *gin.Context) {
	st := storeFrom(c)
	if c.Query("all") == "true" {
		c.JSON(http.StatusOK, st.AllTrades())
		return
	}
	c.JSON(http.StatusOK, st.Trades())
}

func (s *Server) createTrade(c *gin.Context) {
	var in journal.TradeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid trade payload")
		return
	}
	if in.Type != "" {
		dir, err := journal.ParseDirection(string(in.Type))
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		in.Type = dir
	}

	t, err := storeFrom(c).AddTrade(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) deleteTrade(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "trade id must be an integer")
		return
	}
	if err := storeFrom(c).DeleteTrade(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) stats(c *gin.Context) {
	st := storeFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"summary":      st.Stats(),
		"profitFactor": st.Stats().ProfitFactor.String(),
		"totalBalance": st.TotalBalance(),
	})
}

func (s *Server) equity(c *gin.Context) {
	c.JSON(http.StatusOK, storeFrom(c).Equity())
}

func (s *Server) calendar(c *gin.Context) {
	month := s.now()
	if q := c.Query("month"); q != "" {
		t, err := time.Parse("2006-01", q)
		if err != nil {
			badRequest(c, fmt.Sprintf("month %q must be YYYY-MM", q))
			return
		}
		month = t
	}
	c.JSON(http.StatusOK, storeFrom(c).Calendar(month.Year(), month.Month()))
}

func (s *Server) symbols(c *gin.Context) {
	c.JSON(http.StatusOK, storeFrom(c).BySymbol())
}

func (s *Server) directions(c *gin.Context) {
	c.JSON(http.StatusOK, storeFrom(c).Directions())
}

func (s *Server) recent(c *gin.Context) {
	n := 0
	if q := c.Query("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			badRequest(c, "n must be an integer")
			return
		}
		n = v
	}
	c.JSON(http.StatusOK, storeFrom(c).Recent(n))
}

// lots sizes a position. Unset mode and risk fall back to the policy and an
// unset balance to the active account's current balance.
func (s *Server) lots(c *gin.Context) {
	var in risk.LotInputs
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid sizing payload")
		return
	}
	if in.Mode == "" {
		in.Mode = s.policy.Mode
	}
	mode, err := risk.ParseMode(string(in.Mode))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	in.Mode = mode
	if in.RiskPct == 0 {
		in.RiskPct = s.policy.DefaultRiskPct
	}
	if in.Balance == 0 {
		in.Balance = storeFrom(c).TotalBalance().InexactFloat64()
	}

	res := risk.LotSize(in)
	c.JSON(http.StatusOK, lotsResponse{
		LotResult:   res,
		Inputs:      in,
		Lots:        risk.FormatLots(res.Lots),
		RoundedLots: res.RoundedLots(),
		ActualRisk:  res.ActualRisk(),
		Violations:  risk.Check(s.policy, in, res),
	})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid notes payload")
		return
	}
	tags := psych.Analyze(req.Notes)
	if tags == nil {
		tags = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
