package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"events-api/config"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// InitAzTables 建立 table client；timeout 套用在每次 HTTP 嘗試
func InitAzTables(cfg *config.AzTablesConfig, timeout time.Duration) (*aztables.Client, error) {
	svc, err := aztables.NewServiceClientFromConnectionString(cfg.ConnectionString, azTablesClientOptions(cfg, timeout))
	if err != nil {
		return nil, fmt.Errorf("create table service client: %w", err)
	}
	return svc.NewClient(cfg.TableName), nil
}

func azTablesClientOptions(cfg *config.AzTablesConfig, timeout time.Duration) *aztables.ClientOptions {
	return &aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: int32(cfg.MaxRetries),
				TryTimeout: timeout,
			},
		},
	}
}

// EnsureAzTable 建立資料表，TableAlreadyExists 視為成功
func EnsureAzTable(ctx context.Context, client *aztables.Client) error {
	_, err := client.CreateTable(ctx, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return err
		}
	}
	return nil
}
