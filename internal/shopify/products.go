package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// PageSize is the number of products requested per page
const PageSize = 10

// ProductEdge is one product with its pagination cursor
type ProductEdge struct {
	Cursor string      `json:"cursor"`
	Node   ProductNode `json:"node"`
}

// ProductNode is a Shopify product as returned by ProductsQuery
type ProductNode struct {
	ID              string          `json:"id"`
	Handle          string          `json:"handle"`
	Title           string          `json:"title"`
	Vendor          string          `json:"vendor"`
	DescriptionHTML string          `json:"descriptionHtml"`
	ProductType     string          `json:"productType"`
	Status          string          `json:"status"`
	Tags            []string        `json:"tags"`
	SEO             SEONode         `json:"seo"`
	Options         []OptionAxis    `json:"options"`
	Collections     CollectionEdges `json:"collections"`
	Images          ImageEdges      `json:"images"`
	Media           MediaNodes      `json:"media"`
	Metafields      MetafieldEdges  `json:"metafields"`
	Variants        VariantEdges    `json:"variants"`
}

// IsActive reports whether the product is published/active in Shopify
func (p *ProductNode) IsActive() bool {
	return p.Status == "ACTIVE"
}

// SEONode carries the SEO title/description pair
type SEONode struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// OptionAxis is one product option with all its values
type OptionAxis struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// IsPlaceholder reports whether the axis is the synthetic Title/Default Title
// option Shopify adds to products without real options.
func (o OptionAxis) IsPlaceholder() bool {
	if o.Name != "Title" {
		return false
	}
	for _, v := range o.Values {
		if v == "Default Title" {
			return true
		}
	}
	return false
}

type CollectionEdges struct {
	Edges []struct {
		Node struct {
			Handle string `json:"handle"`
		} `json:"node"`
	} `json:"edges"`
}

type ImageEdges struct {
	Edges []struct {
		Node struct {
			OriginalSrc string `json:"originalSrc"`
		} `json:"node"`
	} `json:"edges"`
}

type MediaNodes struct {
	Nodes []struct {
		Typename string `json:"__typename"`
		ID       string `json:"id"`
	} `json:"nodes"`
}

type MetafieldEdges struct {
	Edges []struct {
		Node MetafieldNode `json:"node"`
	} `json:"edges"`
}

// MetafieldNode is one metafield key/value pair
type MetafieldNode struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type VariantEdges struct {
	Edges []struct {
		Node VariantNode `json:"node"`
	} `json:"edges"`
}

// VariantNode is a Shopify product variant
type VariantNode struct {
	ID                string           `json:"id"`
	SKU               string           `json:"sku"`
	Title             string           `json:"title"`
	Price             string           `json:"price"`
	CompareAtPrice    string           `json:"compareAtPrice"`
	Barcode           string           `json:"barcode"`
	Taxable           bool             `json:"taxable"`
	InventoryPolicy   string           `json:"inventoryPolicy"`
	InventoryQuantity int              `json:"inventoryQuantity"`
	InventoryItem     InventoryItem    `json:"inventoryItem"`
	Image             *VariantImage    `json:"image"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
	Metafields        MetafieldEdges   `json:"metafields"`
}

type InventoryItem struct {
	Tracked  bool `json:"tracked"`
	UnitCost *struct {
		Amount string `json:"amount"`
	} `json:"unitCost"`
	Measurement struct {
		Weight struct {
			Value float64 `json:"value"`
		} `json:"weight"`
	} `json:"measurement"`
}

type VariantImage struct {
	OriginalSrc string `json:"originalSrc"`
}

// SelectedOption is one option axis selection on a variant
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type productsPayload struct {
	Products struct {
		Edges []ProductEdge `json:"edges"`
	} `json:"products"`
}

// FetchAllProducts walks the product connection by cursor until the source
// returns no edges or repeats the last cursor. A failed page after the
// client's own handling is treated as end of stream, not a run failure.
func (c *Client) FetchAllProducts(ctx context.Context) []ProductEdge {
	var all []ProductEdge
	cursor := ""

	for {
		variables := map[string]interface{}{
			"first": PageSize,
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		resp, err := c.Execute(ctx, ProductsQuery, variables)
		if err != nil {
			c.logger.Warn("Product page fetch failed, stopping pagination",
				zap.String("cursor", cursor),
				zap.Error(err),
			)
			break
		}

		var payload productsPayload
		if err := json.Unmarshal(resp.Data, &payload); err != nil {
			c.logger.Warn("Failed to decode product page, stopping pagination", zap.Error(err))
			break
		}

		edges := payload.Products.Edges
		if len(edges) == 0 {
			break
		}
		all = append(all, edges...)

		lastCursor := edges[len(edges)-1].Cursor
		if lastCursor == "" || lastCursor == cursor {
			break
		}
		cursor = lastCursor
	}

	return all
}

// ParseProductEdges decodes a stored batch payload back into product edges
func ParseProductEdges(data []byte) ([]ProductEdge, error) {
	var edges []ProductEdge
	if err := json.Unmarshal(data, &edges); err != nil {
		return nil, fmt.Errorf("failed to decode batch rows: %w", err)
	}
	return edges, nil
}
