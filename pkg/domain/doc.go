/*
Package domain holds the shared vocabulary of the contour services: the
errors returned by schema stores, the schema naming rules, and the lifecycle
events emitted while named schemas are compiled and evaluated.

It has no dependencies beyond the standard library so that every adapter can
import it.
*/
package domain
