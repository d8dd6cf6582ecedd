package shopify

// ProductsQuery fetches the full product field set the import engine
// consumes: descriptive fields, SEO, options, collections, images, media,
// metafields and variants with inventory data.
const ProductsQuery = `
query getProducts($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      cursor
      node {
        id
        handle
        title
        vendor
        descriptionHtml
        productType
        status
        tags
        seo {
          title
          description
        }
        options {
          name
          values
        }
        collections(first: 20) {
          edges {
            node {
              handle
            }
          }
        }
        images(first: 20) {
          edges {
            node {
              originalSrc
            }
          }
        }
        media(first: 20) {
          nodes {
            __typename
            ... on MediaImage {
              id
            }
          }
        }
        metafields(first: 50) {
          edges {
            node {
              key
              value
            }
          }
        }
        variants(first: 100) {
          edges {
            node {
              id
              sku
              title
              price
              compareAtPrice
              barcode
              taxable
              inventoryPolicy
              inventoryQuantity
              inventoryItem {
                tracked
                unitCost {
                  amount
                }
                measurement {
                  weight {
                    value
                  }
                }
              }
              image {
                originalSrc
              }
              selectedOptions {
                name
                value
              }
              metafields(first: 50) {
                edges {
                  node {
                    key
                    value
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}
`
