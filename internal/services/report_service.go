package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lapak/internal/export"
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ReportService rolls up daily sales figures and assembles the dashboard
// views.
type ReportService struct {
	orderRepo repositories.OrderRepository
	salesRepo repositories.SalesDataRepository
	userRepo  repositories.UserRepository
	prodRepo  repositories.ProductRepository
	logger    *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	orderRepo repositories.OrderRepository,
	salesRepo repositories.SalesDataRepository,
	userRepo repositories.UserRepository,
	prodRepo repositories.ProductRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		orderRepo: orderRepo,
		salesRepo: salesRepo,
		userRepo:  userRepo,
		prodRepo:  prodRepo,
		logger:    logger,
	}
}

// EnsureDailyRollup creates the sales rollup for the given date if it does
// not exist yet. An existing row is returned as-is and never recomputed, so
// orders backdated after the first rollup are not reflected.
func (s *ReportService) EnsureDailyRollup(date time.Time) (*models.SalesData, error) {
	day := models.DayOf(date)

	existing, err := s.salesRepo.GetByDate(day)
	if err == nil {
		return existing, nil
	}
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	total, count, err := s.orderRepo.TotalsForDate(day)
	if err != nil {
		return nil, err
	}

	data := &models.SalesData{
		Date:        day,
		TotalSales:  total,
		TotalOrders: count,
	}
	if err := s.salesRepo.Create(data); err != nil {
		return nil, err
	}
	s.logger.Info("sales rollup created",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int64("orders", count))
	return data, nil
}

// SalesSummary is the dashboard sales view for a period.
type SalesSummary struct {
	Period      string                      `json:"period"`
	Title       string                      `json:"title"`
	Rollups     []models.SalesData          `json:"sales_data"`
	TotalSales  decimal.Decimal             `json:"total_sales"`
	TotalOrders int64                       `json:"total_orders"`
	TopProducts []repositories.ProductSales `json:"top_products"`
}

// periodWindow maps a period parameter to its day span and display title.
// Unrecognized values fall back to a week.
func periodWindow(period string) (string, int, string) {
	switch period {
	case "month":
		return "month", 30, "Last 30 Days"
	case "year":
		return "year", 365, "Last 365 Days"
	case "week":
		return "week", 7, "Last 7 Days"
	}
	return "week", 7, "Last 7 Days"
}

// Sales builds the sales summary for period ("week", "month" or "year").
func (s *ReportService) Sales(period string) (*SalesSummary, error) {
	if _, err := s.EnsureDailyRollup(time.Now()); err != nil {
		return nil, err
	}

	name, days, title := periodWindow(period)
	start := models.DayOf(time.Now()).AddDate(0, 0, -days)

	rollups, err := s.salesRepo.GetSince(start)
	if err != nil {
		return nil, err
	}

	totalSales := decimal.Zero
	var totalOrders int64
	for _, row := range rollups {
		totalSales = totalSales.Add(row.TotalSales)
		totalOrders += row.TotalOrders
	}

	topProducts, err := s.orderRepo.TopProducts(start, 5)
	if err != nil {
		return nil, err
	}

	return &SalesSummary{
		Period:      name,
		Title:       title,
		Rollups:     rollups,
		TotalSales:  totalSales,
		TotalOrders: totalOrders,
		TopProducts: topProducts,
	}, nil
}

// DashboardStats is the landing view of the seller dashboard.
type DashboardStats struct {
	TotalOrders    int64              `json:"total_orders"`
	TotalProducts  int64              `json:"total_products"`
	TotalCustomers int64              `json:"total_customers"`
	TotalSales     decimal.Decimal    `json:"total_sales"`
	RecentOrders   []models.Order     `json:"recent_orders"`
	SalesData      []models.SalesData `json:"sales_data"`
}

// Dashboard assembles the dashboard statistics, ensuring today's rollup
// exists first.
func (s *ReportService) Dashboard() (*DashboardStats, error) {
	if _, err := s.EnsureDailyRollup(time.Now()); err != nil {
		return nil, err
	}

	totalOrders, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.prodRepo.Count()
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.userRepo.CustomerCount()
	if err != nil {
		return nil, err
	}
	totalSales, err := s.orderRepo.SumDeliveredTotal()
	if err != nil {
		return nil, err
	}
	recent, err := s.orderRepo.Recent(5)
	if err != nil {
		return nil, err
	}
	lastWeek := models.DayOf(time.Now()).AddDate(0, 0, -7)
	rollups, err := s.salesRepo.GetSince(lastWeek)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalOrders:    totalOrders,
		TotalProducts:  totalProducts,
		TotalCustomers: totalCustomers,
		TotalSales:     totalSales,
		RecentOrders:   recent,
		SalesData:      rollups,
	}, nil
}

// Customers returns all non-seller users.
func (s *ReportService) Customers() ([]models.User, error) {
	return s.userRepo.Customers()
}

// CustomerRows builds the export rows for the customer spreadsheet.
func (s *ReportService) CustomerRows() ([]export.CustomerRow, error) {
	customers, err := s.userRepo.Customers()
	if err != nil {
		return nil, err
	}

	rows := make([]export.CustomerRow, 0, len(customers))
	for _, user := range customers {
		rows = append(rows, export.CustomerRow{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Phone:     user.Phone,
			Address:   user.Address,
			JoinedAt:  user.CreatedAt,
		})
	}
	return rows, nil
}
