// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cdp

// staleMarker starts the message helperJS throws for a stale handle.
const staleMarker = "stale handle "

// helperJS installs, once per document, the page-side half of Host. Elements
// are tracked through weak references so the page keeps ownership of its
// nodes; a handle whose node was garbage collected or detached is stale.
// Handles carry a random per-document prefix, so a reload never reissues an
// identity seen before it.
const helperJS = `(() => {
	if (window.__rosterfix) return window.__rosterfix;
	const doc = Array.from(crypto.getRandomValues(new Uint32Array(2)), (n) => n.toString(36)).join('');
	let next = 0;
	const ids = new WeakMap();
	const refs = new Map();
	const tag = (el) => {
		let h = ids.get(el);
		if (!h) {
			h = doc + '.h' + (++next);
			ids.set(el, h);
			refs.set(h, new WeakRef(el));
		}
		return h;
	};
	const find = (h) => {
		if (h === '') return document;
		const ref = refs.get(h);
		const el = ref && ref.deref();
		if (!el || !el.isConnected) throw new Error('stale handle ' + h);
		return el;
	};
	const valueSetter = (el) => {
		for (const proto of [HTMLInputElement.prototype, HTMLTextAreaElement.prototype]) {
			if (el instanceof proto.constructor) {
				const d = Object.getOwnPropertyDescriptor(proto, 'value');
				if (d && d.set) return d.set;
			}
		}
		return null;
	};
	const rf = {
		query: (scope, sel) => Array.from(find(scope).querySelectorAll(sel)).map(tag),
		byId: (id) => {
			const el = document.getElementById(id);
			return el ? {h: tag(el), ok: true} : {h: '', ok: false};
		},
		text: (h) => {
			const el = find(h);
			return el.innerText || el.textContent || '';
		},
		attr: (h, name) => {
			const el = find(h);
			return {v: el.getAttribute(name) || '', ok: el.hasAttribute(name)};
		},
		visible: (h) => find(h).offsetParent !== null,
		focus: (h) => { find(h).focus(); },
		setValue: (h, v) => {
			const el = find(h);
			const set = valueSetter(el);
			if (set) set.call(el, v); else el.value = v;
			el.dispatchEvent(new Event('input', {bubbles: true}));
		},
		scrollIntoView: (h, block) => { find(h).scrollIntoView({block: block}); },
		center: (h) => {
			const r = find(h).getBoundingClientRect();
			return {x: r.left + r.width / 2, y: r.top + r.height / 2};
		},
		dispatch: (h, ev) => {
			const target = find(h);
			const init = {bubbles: true, cancelable: true, view: window};
			let e;
			switch (ev.kind) {
			case 'pointer':
				e = window.PointerEvent
					? new PointerEvent(ev.type, {...init, pointerType: 'mouse', isPrimary: true})
					: new MouseEvent(ev.type, init);
				break;
			case 'mouse':
				e = new MouseEvent(ev.type, {...init, button: 0});
				break;
			default:
				e = new KeyboardEvent(ev.type, {...init, composed: true, key: ev.key, code: ev.code, altKey: ev.alt});
				Object.defineProperty(e, 'keyCode', {get: () => ev.keyCode});
				Object.defineProperty(e, 'which', {get: () => ev.keyCode});
			}
			target.dispatchEvent(e);
		},
		scrollBy: (dy) => { window.scrollBy(0, dy); },
		viewport: () => ({
			scrollHeight: document.documentElement.scrollHeight,
			innerHeight: window.innerHeight,
			scrollY: Math.round(window.scrollY),
		}),
	};
	window.__rosterfix = rf;
	return rf;
})()`
