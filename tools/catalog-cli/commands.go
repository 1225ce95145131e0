package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "catalog-cli",
		Short:        "Manage the product catalog from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), func(name string) bool {
				return cmd.Flags().Changed(name)
			})
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&a.flags.mock, "mock", true, "use the in-memory mock backend (USE_MOCK_DATA)")
	pf.StringVar(&a.flags.backend, "backend", "", "backend when not mocking: http, dynamodb, postgres, mongo (CATALOG_BACKEND)")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "base URL of the HTTP backend (API_BASE_URL)")
	pf.DurationVar(&a.flags.latency, "latency", 0, "artificial delay of the mock backend (MOCK_LATENCY)")
	pf.StringVarP(&a.flags.output, "output", "o", outputTable, "output format: table or json")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable coloured output")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newListCmd(a),
		newCategoryCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product ID %q", arg)
	}
	return id, nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.state.Mount(cmd.Context())
			if err := a.stateError(); err != nil {
				return err
			}
			return a.renderProducts(a.state.Snapshot().Products)
		},
	}
}

func newCategoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "category <value>",
		Short: "List products whose category contains value (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.service.GetProductsByCategory(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			return a.renderProducts(products)
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p := a.state.GetProductByID(cmd.Context(), id)
			if err := a.stateError(); err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("product %d not found", id)
			}
			return a.renderProduct(p)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var req models.CreateProductRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.ValidateCreate(req); err != nil {
				return userError(err)
			}

			before := len(a.state.Snapshot().Products)
			a.state.CreateProduct(cmd.Context(), req)
			if err := a.stateError(); err != nil {
				return err
			}
			products := a.state.Snapshot().Products
			if len(products) <= before {
				return fmt.Errorf("create returned no product")
			}
			p := products[len(products)-1]
			return a.renderProduct(&p)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "product name (required)")
	f.StringVar(&req.Description, "description", "", "product description")
	f.Float64Var(&req.Price, "price", 0, "price, must be greater than 0")
	f.StringVar(&req.Category, "category", "", "category")
	f.StringVar(&req.ImageURL, "image-url", "", "image URL")
	f.IntVar(&req.Stock, "stock", 0, "units in stock")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		name, description, category, imageURL string
		price                                 float64
		stock                                 int
		active                                bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req models.UpdateProductRequest
			f := cmd.Flags()
			if f.Changed("name") {
				req.Name = &name
			}
			if f.Changed("description") {
				req.Description = &description
			}
			if f.Changed("price") {
				req.Price = &price
			}
			if f.Changed("category") {
				req.Category = &category
			}
			if f.Changed("image-url") {
				req.ImageURL = &imageURL
			}
			if f.Changed("stock") {
				req.Stock = &stock
			}
			if f.Changed("active") {
				req.IsActive = &active
			}
			if req.IsEmpty() {
				return fmt.Errorf("nothing to update, pass at least one field flag")
			}
			if err := a.service.ValidateUpdate(req); err != nil {
				return userError(err)
			}

			// Load the list first so the updated row is replaced in place.
			a.state.Mount(cmd.Context())
			a.state.UpdateProduct(cmd.Context(), id, req)
			if err := a.stateError(); err != nil {
				return err
			}
			for _, p := range a.state.Snapshot().Products {
				if p.ID == id {
					return a.renderProduct(&p)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "product name")
	f.StringVar(&description, "description", "", "product description")
	f.Float64Var(&price, "price", 0, "price, must be greater than 0")
	f.StringVar(&category, "category", "", "category")
	f.StringVar(&imageURL, "image-url", "", "image URL")
	f.IntVar(&stock, "stock", 0, "units in stock")
	f.BoolVar(&active, "active", true, "whether the product is active")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a.state.DeleteProduct(cmd.Context(), id)
			if err := a.stateError(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted product %d\n", id)
			return nil
		},
	}
}
