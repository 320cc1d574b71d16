package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	common_models "go-reports/internal/common/models"
)

// BIConnector talks to the BI dataset service over its REST contract
type BIConnector struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewBIConnector(baseURL, apiKey string) *BIConnector {
	return &BIConnector{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *BIConnector) GetType() SourceType {
	return SourceTypeBI
}

// TestConnection checks the BI service is reachable
func (c *BIConnector) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("BI service unhealthy: %s", resp.Status)
	}
	return nil
}

type biColumn struct {
	ColumnName string `json:"columnName"`
	DataType   string `json:"dataType"`
	IsNullable bool   `json:"isNullable"`
	MaxLength  *int   `json:"maxLength"`
}

// GetSchema fetches column metadata for a BI dataset table
func (c *BIConnector) GetSchema(ctx context.Context, src Source) ([]common_models.ColumnDescriptor, error) {
	if !src.Complete() || src.Type != SourceTypeBI {
		return nil, fmt.Errorf("%w: BI source selection incomplete", ErrSchemaUnavailable)
	}

	endpoint := c.tableURL(src) + "/columns"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: BI schema request returned %s", ErrSchemaUnavailable, resp.Status)
	}

	var cols []biColumn
	if err := json.NewDecoder(resp.Body).Decode(&cols); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}

	descriptors := make([]common_models.ColumnDescriptor, 0, len(cols))
	for _, col := range cols {
		descriptors = append(descriptors, common_models.ColumnDescriptor{
			Name:      col.ColumnName,
			DataType:  col.DataType,
			Nullable:  col.IsNullable,
			MaxLength: col.MaxLength,
		})
	}
	return descriptors, nil
}

type biQueryRequest struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	SearchTerm string `json:"searchTerm"`
	SortBy     string `json:"sortBy"`
	SortOrder  string `json:"sortOrder"`
}

type biQueryResponse struct {
	Items []map[string]any `json:"items"`
	Total int64            `json:"total"`
}

// Query fetches one page of rows from a BI dataset table
func (c *BIConnector) Query(ctx context.Context, src Source, req PageRequest) (common_models.PageResult, error) {
	if !src.Complete() || src.Type != SourceTypeBI {
		return common_models.PageResult{}, fmt.Errorf("%w: BI source selection incomplete", ErrRowFetchFailed)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	body, err := json.Marshal(biQueryRequest{
		Page:       page,
		PageSize:   req.PageSize,
		SearchTerm: req.SearchTerm,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: %v", ErrRowFetchFailed, err)
	}

	endpoint := c.tableURL(src) + "/rows"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: %v", ErrRowFetchFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: %v", ErrRowFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return common_models.PageResult{}, fmt.Errorf("%w: BI row request returned %s", ErrRowFetchFailed, resp.Status)
	}

	var payload biQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return common_models.PageResult{}, fmt.Errorf("%w: %v", ErrRowFetchFailed, err)
	}

	return common_models.NewPageResult(payload.Items, payload.Total, page, req.PageSize), nil
}

func (c *BIConnector) tableURL(src Source) string {
	return fmt.Sprintf("%s/workspaces/%s/datasets/%s/tables/%s",
		c.baseURL,
		url.PathEscape(src.BI.WorkspaceID),
		url.PathEscape(src.BI.DatasetID),
		url.PathEscape(src.BI.TableName),
	)
}

func (c *BIConnector) do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.client.Do(req)
}
