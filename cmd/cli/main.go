package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/financify/financify/internal/domain"
	"github.com/financify/financify/internal/infrastructure/auth"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "financify-cli",
		Short: "Financify CLI tool",
		Long:  `A command line interface for interacting with the Financify API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Financify API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("FINANCIFY_TOKEN"), "Bearer token")

	// Transaction commands
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction operations",
	}

	var txType, amount, category string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Run: func(cmd *cobra.Command, args []string) {
			addTransaction(txType, amount, category)
		},
	}
	addCmd.Flags().StringVar(&txType, "type", "", "Transaction type (income or expense)")
	addCmd.Flags().StringVar(&amount, "amount", "", "Amount, as typed")
	addCmd.Flags().StringVar(&category, "category", "", "Category")
	addCmd.MarkFlagRequired("type")
	addCmd.MarkFlagRequired("amount")
	addCmd.MarkFlagRequired("category")

	var filter, filterValue string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Run: func(cmd *cobra.Command, args []string) {
			listTransactions(filter, filterValue)
		},
	}
	listCmd.Flags().StringVar(&filter, "filter", "", "Filter criterion (amount or category)")
	listCmd.Flags().StringVar(&filterValue, "value", "", "Filter value")

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			editTransaction(args[0], txType, amount, category)
		},
	}
	editCmd.Flags().StringVar(&txType, "type", "", "Transaction type (income or expense)")
	editCmd.Flags().StringVar(&amount, "amount", "", "Amount, as typed")
	editCmd.Flags().StringVar(&category, "category", "", "Category")
	editCmd.MarkFlagRequired("type")
	editCmd.MarkFlagRequired("amount")
	editCmd.MarkFlagRequired("category")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deleteTransaction(args[0])
		},
	}

	undoCmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent edit or delete",
		Run: func(cmd *cobra.Command, args []string) {
			undoMutation()
		},
	}

	txCmd.AddCommand(addCmd, listCmd, editCmd, deleteCmd, undoCmd)
	rootCmd.AddCommand(txCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income and expense totals",
		Run: func(cmd *cobra.Command, args []string) {
			showSummary()
		},
	}
	rootCmd.AddCommand(summaryCmd)

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List known categories",
		Run: func(cmd *cobra.Command, args []string) {
			showCategories()
		},
	}
	rootCmd.AddCommand(categoriesCmd)

	var secret, uid, email, name string
	var expiration time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a development bearer token",
		Run: func(cmd *cobra.Command, args []string) {
			generateToken(secret, uid, email, name, expiration)
		},
	}
	tokenCmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	tokenCmd.Flags().StringVar(&uid, "uid", "", "User ID")
	tokenCmd.Flags().StringVar(&email, "email", "", "User email")
	tokenCmd.Flags().StringVar(&name, "name", "", "User display name")
	tokenCmd.Flags().DurationVar(&expiration, "expiration", 24*time.Hour, "Token lifetime")
	tokenCmd.MarkFlagRequired("uid")
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string, body any) []byte {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}
	return respBody
}

func addTransaction(txType, amount, category string) {
	body := doRequest(http.MethodPost, "/api/v1/transactions", map[string]string{
		"type":     txType,
		"amount":   amount,
		"category": category,
	})

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Added %s %s (%s) as %s\n", txType, amount, category, result["id"])
}

func listTransactions(filter, value string) {
	path := "/api/v1/transactions"
	if filter != "" {
		q := url.Values{}
		q.Set("filter", filter)
		q.Set("value", value)
		path += "?" + q.Encode()
	}

	body := doRequest(http.MethodGet, path, nil)

	var result struct {
		Transactions []struct {
			ID       string `json:"id"`
			Type     string `json:"type"`
			Amount   string `json:"amount"`
			Category string `json:"category"`
		} `json:"transactions"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, tx := range result.Transactions {
		fmt.Printf("%s  %-7s  %12s  %s\n", tx.ID, tx.Type, tx.Amount, tx.Category)
	}
	fmt.Printf("Total: %d\n", result.Total)
}

func editTransaction(id, txType, amount, category string) {
	doRequest(http.MethodPut, "/api/v1/transactions/"+id, map[string]string{
		"type":     txType,
		"amount":   amount,
		"category": category,
	})
	fmt.Printf("Edited %s (undo available for a few seconds)\n", id)
}

func deleteTransaction(id string) {
	doRequest(http.MethodDelete, "/api/v1/transactions/"+id, nil)
	fmt.Printf("Deleted %s (undo available for a few seconds)\n", id)
}

func undoMutation() {
	doRequest(http.MethodPost, "/api/v1/transactions/undo", nil)
	fmt.Println("Undone")
}

func showSummary() {
	body := doRequest(http.MethodGet, "/api/v1/summary", nil)

	var result struct {
		TotalIncome  string `json:"total_income"`
		TotalExpense string `json:"total_expense"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Income:  %s\nExpense: %s\n", result.TotalIncome, result.TotalExpense)
}

func showCategories() {
	body := doRequest(http.MethodGet, "/api/v1/categories", nil)

	var result struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	for _, c := range result.Categories {
		fmt.Println(c)
	}
}

func generateToken(secret, uid, email, name string, expiration time.Duration) {
	if secret == "" {
		fmt.Println("A signing secret is required (--secret or JWT_SECRET)")
		os.Exit(1)
	}

	manager := auth.NewJWTManager(secret, expiration)
	signed, err := manager.Generate(&domain.User{UID: uid, Email: email, Name: name})
	if err != nil {
		fmt.Printf("Failed to generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}
