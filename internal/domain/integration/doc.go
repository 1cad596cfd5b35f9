// Package integration contains the catalog integration bounded context.
// It describes the remote catalog as seen by the synchronizer.
//
// Key concepts:
//   - CatalogSource: Port interface for reading products, categories, attributes and attribute sets
//     from the remote catalog (Magento REST in production)
//   - SourceProduct / SourceCategory / SourceAttribute: decoded remote records, immutable within one pass
//   - ProductKind: closed variant over the remote product type classifier
//   - Archetype: a derived variation classification (key + originating attribute or attribute set)
//   - BatchResult: outcome of synchronizing many SKUs
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
